package services

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/stephen4599/Civic-resolve/internal/events"
)

// recordingMailer captures sends instead of talking SMTP.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	done chan struct{}
}

type sentMail struct {
	To          string
	Subject     string
	Body        string
	Attachments []events.Attachment
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{done: make(chan struct{}, 16)}
}

func (m *recordingMailer) Send(to, subject, body string, attachments []events.Attachment) error {
	m.mu.Lock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body, Attachments: attachments})
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for email")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func TestEmailWorker_DeliversFromBus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	// Persistent delivery so the publish cannot race the worker's
	// subscription.
	bus := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16, Persistent: true},
		watermill.NewSlogLogger(logger),
	)
	defer bus.Close()

	mailer := newRecordingMailer()
	worker := NewEmailWorker(bus, mailer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	publisher := events.NewEventPublisher(bus, logger)
	err := publisher.Publish(ctx, &events.NotificationEvent{
		Type:        events.EventIssueResolved,
		Recipient:   "alice@example.com",
		Username:    "alice",
		IssueID:     7,
		Description: "pothole",
		Link:        "http://localhost:3000/feedback?issueId=7",
		Attachments: []events.Attachment{
			{Name: "after.png", ContentType: "image/png", Data: []byte("png-bytes")},
		},
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	mail := mailer.last(t)
	if mail.To != "alice@example.com" {
		t.Errorf("Expected recipient alice@example.com, got %s", mail.To)
	}
	if !strings.Contains(mail.Subject, "#7") {
		t.Errorf("Expected issue number in subject, got %q", mail.Subject)
	}
	if !strings.Contains(mail.Body, "http://localhost:3000/feedback?issueId=7") {
		t.Errorf("Expected feedback link in body, got %q", mail.Body)
	}
	if len(mail.Attachments) != 1 || mail.Attachments[0].Name != "after.png" {
		t.Errorf("Expected evidence attachment carried through, got %+v", mail.Attachments)
	}
}

func TestComposeEmail(t *testing.T) {
	cases := []struct {
		eventType   events.EventType
		event       events.NotificationEvent
		wantSubject string
		wantInBody  string
	}{
		{
			events.EventWelcome,
			events.NotificationEvent{Username: "alice"},
			"Welcome to Civic Resolve", "Hi alice",
		},
		{
			events.EventIssueReported,
			events.NotificationEvent{Username: "alice", IssueID: 3, Description: "pothole"},
			"Issue #3 received", "pending review",
		},
		{
			events.EventIssueResolved,
			events.NotificationEvent{Username: "alice", IssueID: 3, Link: "http://x/feedback?issueId=3"},
			"Issue #3 resolved", "http://x/feedback?issueId=3",
		},
		{
			events.EventIssueRejected,
			events.NotificationEvent{Username: "alice", IssueID: 3, Remark: "duplicate"},
			"Issue #3 rejected", "duplicate",
		},
		{
			events.EventIssueReassigned,
			events.NotificationEvent{Username: "worker", IssueID: 3, Remark: "cracked"},
			"Issue #3 needs rework", "cracked",
		},
		{
			events.EventContractorApproved,
			events.NotificationEvent{Username: "worker"},
			"Contractor application approved", "approved",
		},
		{
			events.EventContractorRejected,
			events.NotificationEvent{Username: "worker"},
			"Contractor application rejected", "rejected",
		},
	}

	for _, tc := range cases {
		tc.event.Type = tc.eventType
		subject, body := composeEmail(&tc.event)
		if subject != tc.wantSubject {
			t.Errorf("%s: expected subject %q, got %q", tc.eventType, tc.wantSubject, subject)
		}
		if !strings.Contains(body, tc.wantInBody) {
			t.Errorf("%s: expected body to contain %q, got %q", tc.eventType, tc.wantInBody, body)
		}
	}

	t.Run("UnknownTypeSkipped", func(t *testing.T) {
		subject, _ := composeEmail(&events.NotificationEvent{Type: "bogus"})
		if subject != "" {
			t.Errorf("Expected empty subject for unknown type, got %q", subject)
		}
	})
}
