package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	query := repo.db.Rebind(`
INSERT INTO notifications (user_id, title, message, type, related_id, related_type)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, created_at`)
	err := repo.db.QueryRowxContext(
		ctx, query,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedID, n.RelatedType,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "creating notification")
	}
	return n, nil
}

func (repo notificationRepository) BulkCreateNotifications(ctx context.Context, ns []notification.Notification) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`
INSERT INTO notifications (user_id, title, message, type, related_id, related_type)
VALUES (?, ?, ?, ?, ?, ?)`)

	for _, n := range ns {
		_, err = tx.ExecContext(ctx, query, n.UserID, n.Title, n.Message, n.Type, n.RelatedID, n.RelatedType)
		if err != nil {
			return errors.Wrap(err, "creating notification")
		}
	}
	return errors.Wrap(tx.Commit(), "committing notifications")
}

func (repo notificationRepository) QueryUserNotifications(ctx context.Context, userID int, unreadOnly bool) ([]notification.Notification, error) {
	query := `SELECT * FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read = ?`
	}
	query += ` ORDER BY created_at DESC LIMIT 50`

	args := []interface{}{userID}
	if unreadOnly {
		args = append(args, false)
	}

	ns := make([]notification.Notification, 0)
	if err := repo.db.SelectContext(ctx, &ns, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	return ns, nil
}

func (repo notificationRepository) MarkRead(ctx context.Context, id, userID int) error {
	query := repo.db.Rebind(`UPDATE notifications SET read = ? WHERE id = ? AND user_id = ?`)
	if _, err := repo.db.ExecContext(ctx, query, true, id, userID); err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return nil
}

func (repo notificationRepository) MarkAllRead(ctx context.Context, userID int) error {
	query := repo.db.Rebind(`UPDATE notifications SET read = ? WHERE user_id = ? AND read = ?`)
	if _, err := repo.db.ExecContext(ctx, query, true, userID, false); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}

func (repo notificationRepository) MarkEmailSent(ctx context.Context, id int) error {
	query := repo.db.Rebind(`UPDATE notifications SET sent_email = ? WHERE id = ?`)
	if _, err := repo.db.ExecContext(ctx, query, true, id); err != nil {
		return errors.Wrap(err, "flagging notification email")
	}
	return nil
}

func (repo notificationRepository) GetPreferences(ctx context.Context, userID int) (notification.Preferences, error) {
	var prefs notification.Preferences
	query := repo.db.Rebind(`SELECT * FROM notification_preferences WHERE user_id = ?`)
	if err := repo.db.GetContext(ctx, &prefs, query, userID); err != nil {
		return notification.Preferences{}, trapNoRowsErr(err, notification.ErrPreferencesNotFound)
	}
	return prefs, nil
}

func (repo notificationRepository) CreatePreferences(ctx context.Context, prefs notification.Preferences) (notification.Preferences, error) {
	query := repo.db.Rebind(`
INSERT INTO notification_preferences
    (user_id, email_enabled, sms_enabled, push_enabled, attendance_alerts, marks_alerts, exam_alerts, class_alerts)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`)
	err := repo.db.QueryRowxContext(
		ctx, query,
		prefs.UserID, prefs.EmailEnabled, prefs.SMSEnabled, prefs.PushEnabled,
		prefs.AttendanceAlerts, prefs.MarksAlerts, prefs.ExamAlerts, prefs.ClassAlerts,
	).Scan(&prefs.ID)
	if err != nil {
		return notification.Preferences{}, errors.Wrap(err, "creating notification preferences")
	}
	return prefs, nil
}

func (repo notificationRepository) ReplacePreferences(ctx context.Context, prefs notification.Preferences) error {
	query := repo.db.Rebind(`
INSERT INTO notification_preferences
    (user_id, email_enabled, sms_enabled, push_enabled, attendance_alerts, marks_alerts, exam_alerts, class_alerts)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    email_enabled = excluded.email_enabled,
    sms_enabled = excluded.sms_enabled,
    push_enabled = excluded.push_enabled,
    attendance_alerts = excluded.attendance_alerts,
    marks_alerts = excluded.marks_alerts,
    exam_alerts = excluded.exam_alerts,
    class_alerts = excluded.class_alerts`)
	_, err := repo.db.ExecContext(
		ctx, query,
		prefs.UserID, prefs.EmailEnabled, prefs.SMSEnabled, prefs.PushEnabled,
		prefs.AttendanceAlerts, prefs.MarksAlerts, prefs.ExamAlerts, prefs.ClassAlerts,
	)
	return errors.Wrap(err, "replacing notification preferences")
}

func (repo notificationRepository) GetUserEmail(ctx context.Context, userID int) (string, error) {
	var email null.String
	query := repo.db.Rebind(`SELECT email FROM users WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &email, query, userID); err != nil {
		return "", errors.Wrap(err, "getting user email")
	}
	return email.String, nil
}
