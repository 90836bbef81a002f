package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Recorder is an in-memory Notifier used by service tests to assert on the
// notifications and emails an operation produced.
type Recorder struct {
	mu            sync.Mutex
	Notifications []RecordedNotification
	Emails        []RecordedEmail
	NotifyErr     error
}

type RecordedNotification struct {
	UserID  uuid.UUID
	Kind    enums.NotificationType
	Title   string
	Message string
}

type RecordedEmail struct {
	To      string
	Subject string
	Body    string
}

func (r *Recorder) Notify(_ context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.NotifyErr != nil {
		return r.NotifyErr
	}
	r.Notifications = append(r.Notifications, RecordedNotification{UserID: userID, Kind: kind, Title: title, Message: message})
	return nil
}

func (r *Recorder) Email(_ context.Context, to, subject, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Emails = append(r.Emails, RecordedEmail{To: to, Subject: subject, Body: body})
}

// NotificationsFor filters recorded notifications by recipient.
func (r *Recorder) NotificationsFor(userID uuid.UUID) []RecordedNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []RecordedNotification
	for _, n := range r.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
