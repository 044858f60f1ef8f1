package events

import "time"

// TopicNotifications is the single topic the email worker consumes.
const TopicNotifications = "notifications"

type EventType string

const (
	EventWelcome            EventType = "welcome"
	EventIssueReported      EventType = "issue_reported"
	EventIssueResolved      EventType = "issue_resolved"
	EventIssueRejected      EventType = "issue_rejected"
	EventIssueReassigned    EventType = "issue_reassigned"
	EventContractorApproved EventType = "contractor_approved"
	EventContractorRejected EventType = "contractor_rejected"
)

// Attachment is an image payload carried along with a notification, e.g. the
// before/after evidence attached to a resolution email.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// NotificationEvent is the payload published by services whenever the
// lifecycle engine wants an email sent. Sends are best-effort: the worker
// logs failures and never reports them back.
type NotificationEvent struct {
	Type      EventType `json:"type"`
	Recipient string    `json:"recipient"`
	Username  string    `json:"username"`

	IssueID     uint   `json:"issue_id,omitempty"`
	Description string `json:"description,omitempty"`
	Remark      string `json:"remark,omitempty"`
	Link        string `json:"link,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}
