package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/audit"
)

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) *auditRepository {
	return &auditRepository{db: db}
}

func (repo auditRepository) CreateEntry(ctx context.Context, entry audit.Entry) error {
	query := repo.db.Rebind(`
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(
		ctx, query,
		entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		entry.OldValues, entry.NewValues, entry.IPAddress, entry.UserAgent,
	)
	return errors.Wrap(err, "creating audit entry")
}

func (repo auditRepository) FilterEntries(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	query := `SELECT * FROM audit_logs WHERE 1=1`
	args := make([]interface{}, 0, 6)

	if filter.UserID > 0 {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.EntityType != "" {
		query += ` AND entity_type = ?`
		args = append(args, filter.EntityType)
	}
	if filter.EntityID > 0 {
		query += ` AND entity_id = ?`
		args = append(args, filter.EntityID)
	}
	if filter.StartDate != "" {
		query += ` AND created_at >= ?`
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += ` AND created_at <= ?`
		args = append(args, filter.EndDate)
	}

	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, filter.Limit)

	entries := make([]audit.Entry, 0)
	if err := repo.db.SelectContext(ctx, &entries, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying audit entries")
	}
	return entries, nil
}
