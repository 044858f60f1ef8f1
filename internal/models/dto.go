package models

import "time"

// IssueResponse is the client-facing projection of an Issue. Raw image bytes
// are replaced with derived retrieval URLs (present only when the slot holds
// data) and the owning-user relation with the reporter's username.
type IssueResponse struct {
	ID            uint          `json:"id"`
	Description   string        `json:"description"`
	Address       string        `json:"address"`
	Pincode       string        `json:"pincode"`
	Category      IssueCategory `json:"category"`
	OtherCategory string        `json:"otherCategory,omitempty"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`

	ImagePath       *string `json:"imagePath"`
	BeforeImagePath *string `json:"beforeImagePath"`
	AfterImagePath  *string `json:"afterImagePath"`

	Status       IssueStatus `json:"status"`
	Remark       string      `json:"remark,omitempty"`
	ReportedBy   string      `json:"reportedBy"`
	ContractorID *uint       `json:"contractorId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IssueImage carries one stored image slot for streaming to the client.
type IssueImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ImageUpload is a decoded multipart file attached to a request.
type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

type JwtResponse struct {
	Token    string   `json:"token"`
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

type UserProfileResponse struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Address     string   `json:"address"`
	Role        UserRole `json:"role"`
}

type CaptchaResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type CategoryCount struct {
	Category IssueCategory `json:"category"`
	Count    int64         `json:"count"`
}

type LocationPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    float64 `json:"weight"`
}
