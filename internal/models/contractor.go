package models

import "time"

// Contractor is a service-provider profile bound 1:1 to a Users record with
// role CONTRACTOR. The backing user stays disabled until an admin approves
// the profile.
type Contractor struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	UserID uint  `json:"user_id" gorm:"uniqueIndex;not null"`
	User   Users `json:"user" gorm:"foreignKey:UserID"`

	AssignedArea   string `json:"assigned_area" gorm:"size:100;not null" validate:"required"`
	Specialization string `json:"specialization" gorm:"size:100"`

	// Personal details duplicated from the signup form.
	FullName    string `json:"full_name" gorm:"size:100" validate:"omitempty,full_name,min=3,max=100"`
	PhoneNumber string `json:"phone_number" gorm:"size:10" validate:"omitempty,phone_number"`
	Address     string `json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Contractor) TableName() string {
	return "contractors"
}
