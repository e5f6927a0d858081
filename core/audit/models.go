package audit

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Entry struct {
	ID         int         `json:"id" db:"id"`
	UserID     null.Int    `json:"user_id" db:"user_id"`
	Action     string      `json:"action" db:"action"`
	EntityType string      `json:"entity_type" db:"entity_type"`
	EntityID   null.Int    `json:"entity_id" db:"entity_id"`
	OldValues  null.String `json:"old_values" db:"old_values"`
	NewValues  null.String `json:"new_values" db:"new_values"`
	IPAddress  null.String `json:"ip_address" db:"ip_address"`
	UserAgent  null.String `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// Event describes a mutation to record. OldValues/NewValues are serialized
// to JSON when present.
type Event struct {
	UserID     int
	Action     string
	EntityType string
	EntityID   int
	OldValues  interface{}
	NewValues  interface{}
	IPAddress  string
	UserAgent  string
}

// Filter narrows the audit listing. Limit defaults to 100.
type Filter struct {
	UserID     int    `query:"userId"`
	EntityType string `query:"entityType"`
	EntityID   int    `query:"entityId"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
	Limit      int    `query:"limit"`
}
