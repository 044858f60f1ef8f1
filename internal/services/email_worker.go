package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"gopkg.in/gomail.v2"

	"github.com/stephen4599/Civic-resolve/internal/events"
)

// Mailer sends one composed email. The SMTP implementation is swapped for a
// recorder in tests.
type Mailer interface {
	Send(to, subject, body string, attachments []events.Attachment) error
}

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) Send(to, subject, body string, attachments []events.Attachment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	for _, att := range attachments {
		data := att.Data
		msg.Attach(att.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}

	return m.dialer.DialAndSend(msg)
}

// EmailWorker consumes notification events off the bus and turns them into
// emails. Sends are best-effort: failures are logged and never propagated
// back to the operation that raised the event.
type EmailWorker struct {
	subscriber message.Subscriber
	mailer     Mailer
	logger     *slog.Logger
}

func NewEmailWorker(subscriber message.Subscriber, mailer Mailer, logger *slog.Logger) *EmailWorker {
	return &EmailWorker{
		subscriber: subscriber,
		mailer:     mailer,
		logger:     logger,
	}
}

// Run blocks consuming the notifications topic until ctx is cancelled.
func (w *EmailWorker) Run(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, events.TopicNotifications)
	if err != nil {
		return fmt.Errorf("failed to subscribe to notifications: %w", err)
	}

	w.logger.Info("Email worker started")

	for msg := range messages {
		w.handle(msg)
		msg.Ack()
	}

	w.logger.Info("Email worker stopped")
	return nil
}

func (w *EmailWorker) handle(msg *message.Message) {
	var event events.NotificationEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		w.logger.Error("Failed to decode notification event", "message_id", msg.UUID, "error", err)
		return
	}

	subject, body := composeEmail(&event)
	if subject == "" {
		w.logger.Warn("Unknown notification event type", "type", event.Type)
		return
	}

	if err := w.mailer.Send(event.Recipient, subject, body, event.Attachments); err != nil {
		w.logger.Error("Failed to send email",
			"type", event.Type, "recipient", event.Recipient, "error", err)
		return
	}

	w.logger.Info("Email sent", "type", event.Type, "recipient", event.Recipient)
}

// composeEmail renders the subject and plain-text body for an event.
func composeEmail(event *events.NotificationEvent) (string, string) {
	switch event.Type {
	case events.EventWelcome:
		return "Welcome to Civic Resolve",
			fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now report civic issues in your area and track their resolution.\n\nThank you for helping improve your community.",
				event.Username)

	case events.EventIssueReported:
		return fmt.Sprintf("Issue #%d received", event.IssueID),
			fmt.Sprintf("Hi %s,\n\nYour report has been received and is pending review:\n\n%s\n\nWe will notify you as it progresses.",
				event.Username, event.Description)

	case events.EventIssueResolved:
		return fmt.Sprintf("Issue #%d resolved", event.IssueID),
			fmt.Sprintf("Hi %s,\n\nGood news: the issue you reported has been resolved.\n\n%s\n\nBefore and after photos are attached. Please rate the work here: %s",
				event.Username, event.Description, event.Link)

	case events.EventIssueRejected:
		return fmt.Sprintf("Issue #%d rejected", event.IssueID),
			fmt.Sprintf("Hi %s,\n\nYour reported issue could not be accepted.\n\nReason: %s",
				event.Username, event.Remark)

	case events.EventIssueReassigned:
		return fmt.Sprintf("Issue #%d needs rework", event.IssueID),
			fmt.Sprintf("Hi %s,\n\nThe issue assigned to you has been sent back for improvement.\n\nRemark: %s",
				event.Username, event.Remark)

	case events.EventContractorApproved:
		return "Contractor application approved",
			fmt.Sprintf("Hi %s,\n\nYour contractor application has been approved. You can now sign in and view the issues assigned to you.",
				event.Username)

	case events.EventContractorRejected:
		return "Contractor application rejected",
			fmt.Sprintf("Hi %s,\n\nWe are sorry to inform you that your contractor application has been rejected.",
				event.Username)
	}

	return "", ""
}
