package audit

import (
	"context"
	"encoding/json"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// DefaultLimit caps the audit listing when no limit is requested.
const DefaultLimit = 100

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry Entry) error
		FilterEntries(ctx context.Context, filter Filter) ([]Entry, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends an audit entry. Failures are logged and swallowed; auditing
// never fails the operation being audited.
func (svc *Service) Record(ctx context.Context, ev Event) {
	entry := Entry{
		Action:     ev.Action,
		EntityType: ev.EntityType,
	}
	if ev.UserID > 0 {
		entry.UserID = null.IntFrom(ev.UserID)
	}
	if ev.EntityID > 0 {
		entry.EntityID = null.IntFrom(ev.EntityID)
	}
	if ev.IPAddress != "" {
		entry.IPAddress = null.StringFrom(ev.IPAddress)
	}
	if ev.UserAgent != "" {
		entry.UserAgent = null.StringFrom(ev.UserAgent)
	}
	if ev.OldValues != nil {
		if b, err := json.Marshal(ev.OldValues); err == nil {
			entry.OldValues = null.StringFrom(string(b))
		}
	}
	if ev.NewValues != nil {
		if b, err := json.Marshal(ev.NewValues); err == nil {
			entry.NewValues = null.StringFrom(string(b))
		}
	}

	if err := svc.repo.CreateEntry(ctx, entry); err != nil {
		svc.logger.Error("failed to record audit entry", err)
	}
}

// Query lists audit entries matching the filter, newest first.
func (svc *Service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	return svc.repo.FilterEntries(ctx, filter)
}
