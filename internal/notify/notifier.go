package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/internal/notifications"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
	"github.com/quanmat/fasalmitra-backend/pkg/mailer"
)

// Notifier fans a domain event out to the in-app notification table and,
// optionally, the user's mailbox. Services depend on this interface so tests
// can record what was sent.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error
	Email(ctx context.Context, to, subject, body string)
}

type notifier struct {
	repo   notifications.Repository
	sender mailer.Sender
	logg   *logger.Logger
}

// New wires the notifier. The mail sender may be nil in environments without
// an SMTP relay; emails are then skipped.
func New(repo notifications.Repository, sender mailer.Sender, logg *logger.Logger) (Notifier, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &notifier{repo: repo, sender: sender, logg: logg}, nil
}

func (n *notifier) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	row := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := n.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

// Email delivers best-effort: a failed or skipped send never fails the
// triggering operation.
func (n *notifier) Email(ctx context.Context, to, subject, body string) {
	if n.sender == nil || to == "" {
		return
	}
	if err := n.sender.Send(ctx, to, subject, body); err != nil && n.logg != nil {
		n.logg.Error(ctx, "notification email failed", err)
	}
}
