package models

import (
	"time"

	"gorm.io/gorm"
)

type IssueCategory string

const (
	CategoryRoad        IssueCategory = "ROAD"
	CategoryWater       IssueCategory = "WATER"
	CategorySanitation  IssueCategory = "SANITATION"
	CategoryElectricity IssueCategory = "ELECTRICITY"
	CategoryOther       IssueCategory = "OTHER"
)

type IssueStatus string

const (
	StatusPending    IssueStatus = "PENDING"
	StatusVerified   IssueStatus = "VERIFIED"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusResolved   IssueStatus = "RESOLVED"
	StatusRejected   IssueStatus = "REJECTED"
)

// Issue is a citizen-reported civic problem. Image payloads are stored
// inline: the original report image plus before/after remediation evidence
// uploaded by the assigned contractor.
type Issue struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Description string        `json:"description" gorm:"type:text;not null" validate:"required"`
	Address     string        `json:"address" gorm:"size:500;not null" validate:"required,max=500"`
	Pincode     string        `json:"pincode" gorm:"size:10;not null" validate:"required,pincode"`
	Category    IssueCategory `json:"category" gorm:"size:50;not null;index" validate:"required,issue_category"`

	// Set only when Category == OTHER.
	OtherCategory string `json:"other_category" gorm:"size:100"`

	Latitude  float64 `json:"latitude" gorm:"not null" validate:"latitude"`
	Longitude float64 `json:"longitude" gorm:"not null" validate:"longitude"`

	ImageData []byte `json:"-" gorm:"type:bytea"`
	ImageType string `json:"-" gorm:"size:100"`
	ImageName string `json:"-" gorm:"size:255"`

	BeforeImageData []byte `json:"-" gorm:"type:bytea"`
	BeforeImageType string `json:"-" gorm:"size:100"`
	BeforeImageName string `json:"-" gorm:"size:255"`

	AfterImageData []byte `json:"-" gorm:"type:bytea"`
	AfterImageType string `json:"-" gorm:"size:100"`
	AfterImageName string `json:"-" gorm:"size:255"`

	Status IssueStatus `json:"status" gorm:"size:50;default:PENDING;index"`
	Remark string      `json:"remark" gorm:"size:1000"`

	// Relations
	UserID       uint        `json:"user_id" gorm:"not null;index"`
	User         Users       `json:"-" gorm:"foreignKey:UserID"`
	ContractorID *uint       `json:"contractor_id" gorm:"index"`
	Contractor   *Contractor `json:"-" gorm:"foreignKey:ContractorID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Issue) TableName() string {
	return "issues"
}

// BeforeCreate forces the initial lifecycle state regardless of what the
// caller supplied.
func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	i.Status = StatusPending
	return nil
}
