package models

import "time"

// Feedback is an append-only rating left by a citizen after resolution.
type Feedback struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Rating  int    `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Comment string `json:"comment" gorm:"size:1000" validate:"omitempty,max=1000"`
	IssueID uint   `json:"issue_id" gorm:"not null;index" validate:"required"`

	CreatedAt time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
