package notification

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		// BulkCreateNotifications inserts all rows in one transaction.
		BulkCreateNotifications(ctx context.Context, ns []Notification) error
		QueryUserNotifications(ctx context.Context, userID int, unreadOnly bool) ([]Notification, error)
		MarkRead(ctx context.Context, id, userID int) error
		MarkAllRead(ctx context.Context, userID int) error
		MarkEmailSent(ctx context.Context, id int) error
		GetPreferences(ctx context.Context, userID int) (Preferences, error)
		CreatePreferences(ctx context.Context, prefs Preferences) (Preferences, error)
		// ReplacePreferences rewrites the whole preference row for the user.
		ReplacePreferences(ctx context.Context, prefs Preferences) error
		GetUserEmail(ctx context.Context, userID int) (string, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}
)

// ErrPreferencesNotFound signals a user with no stored preference row yet.
var ErrPreferencesNotFound = errors.New("notification preferences not found")

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, logger: logger}
}

// Notify records a notification for a user. Failures are logged and
// swallowed so the triggering operation never fails on them.
func (svc *Service) Notify(ctx context.Context, n New) {
	rec, err := svc.repo.CreateNotification(ctx, n.record())
	if err != nil {
		svc.logger.Error("failed to create notification", err)
		return
	}
	svc.deliverEmail(ctx, rec)
}

// NotifyBulk records many notifications at once, in one transaction.
// Failures are logged and swallowed.
func (svc *Service) NotifyBulk(ctx context.Context, ns []New) {
	if len(ns) == 0 {
		return
	}
	recs := make([]Notification, 0, len(ns))
	for _, n := range ns {
		recs = append(recs, n.record())
	}
	if err := svc.repo.BulkCreateNotifications(ctx, recs); err != nil {
		svc.logger.Error("failed to create notifications", err)
	}
}

// deliverEmail hands the notification to the email channel when the user has
// opted in and has an email on file, then flags it as sent.
func (svc *Service) deliverEmail(ctx context.Context, rec Notification) {
	if svc.mailSvc == nil || !rec.UserID.Valid {
		return
	}
	prefs, err := svc.Preferences(ctx, rec.UserID.Int)
	if err != nil || !prefs.EmailEnabled {
		return
	}
	email, err := svc.repo.GetUserEmail(ctx, rec.UserID.Int)
	if err != nil || email == "" {
		return
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: email}},
		Subject: rec.Title,
		BodyStr: rec.Message,
	})
	if err := svc.repo.MarkEmailSent(ctx, rec.ID); err != nil {
		svc.logger.Error("failed to flag notification email", err)
	}
}

// ListForUser returns the user's latest notifications (50 max, newest first).
func (svc *Service) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]Notification, error) {
	return svc.repo.QueryUserNotifications(ctx, userID, unreadOnly)
}

// MarkRead flags one of the user's notifications as read; another user's
// notification is silently untouched.
func (svc *Service) MarkRead(ctx context.Context, id, userID int) error {
	return svc.repo.MarkRead(ctx, id, userID)
}

func (svc *Service) MarkAllRead(ctx context.Context, userID int) error {
	return svc.repo.MarkAllRead(ctx, userID)
}

// Preferences returns the user's preferences, creating the default row on
// first access.
func (svc *Service) Preferences(ctx context.Context, userID int) (Preferences, error) {
	prefs, err := svc.repo.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrPreferencesNotFound {
			return svc.repo.CreatePreferences(ctx, DefaultPreferences(userID))
		}
		return Preferences{}, err
	}
	return prefs, nil
}

// UpdatePreferences replaces the user's whole preference row; omitted fields
// come back disabled.
func (svc *Service) UpdatePreferences(ctx context.Context, userID int, prefs Preferences) error {
	prefs.UserID = userID
	return svc.repo.ReplacePreferences(ctx, prefs)
}
