package notification

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Types
const (
	TypeAttendance = "attendance"
	TypeMarks      = "marks"
	TypeExam       = "exam"
	TypeClass      = "class"
	TypeGeneral    = "general"
	TypeSystem     = "system"
)

type Notification struct {
	ID          int         `json:"id" db:"id"`
	UserID      null.Int    `json:"user_id" db:"user_id"`
	Title       string      `json:"title" db:"title"`
	Message     string      `json:"message" db:"message"`
	Type        string      `json:"type" db:"type"`
	RelatedID   null.Int    `json:"related_id" db:"related_id"`
	RelatedType null.String `json:"related_type" db:"related_type"`
	Read        bool        `json:"read" db:"read"`
	SentEmail   bool        `json:"sent_email" db:"sent_email"`
	SentSMS     bool        `json:"sent_sms" db:"sent_sms"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// New describes a notification to create.
type New struct {
	UserID      int
	Title       string
	Message     string
	Type        string
	RelatedID   int
	RelatedType string
}

func (n New) record() Notification {
	rec := Notification{
		Title:   n.Title,
		Message: n.Message,
		Type:    n.Type,
	}
	if n.UserID > 0 {
		rec.UserID = null.IntFrom(n.UserID)
	}
	if n.RelatedID > 0 {
		rec.RelatedID = null.IntFrom(n.RelatedID)
	}
	if n.RelatedType != "" {
		rec.RelatedType = null.StringFrom(n.RelatedType)
	}
	return rec
}

// Preferences is a user's per-channel and per-category opt-ins. A missing row
// is created with the defaults on first read.
type Preferences struct {
	ID               int  `json:"id,omitempty" db:"id"`
	UserID           int  `json:"user_id,omitempty" db:"user_id"`
	EmailEnabled     bool `json:"email_enabled" db:"email_enabled"`
	SMSEnabled       bool `json:"sms_enabled" db:"sms_enabled"`
	PushEnabled      bool `json:"push_enabled" db:"push_enabled"`
	AttendanceAlerts bool `json:"attendance_alerts" db:"attendance_alerts"`
	MarksAlerts      bool `json:"marks_alerts" db:"marks_alerts"`
	ExamAlerts       bool `json:"exam_alerts" db:"exam_alerts"`
	ClassAlerts      bool `json:"class_alerts" db:"class_alerts"`
}

// DefaultPreferences are applied when a user has no stored preferences yet.
func DefaultPreferences(userID int) Preferences {
	return Preferences{
		UserID:           userID,
		EmailEnabled:     true,
		SMSEnabled:       false,
		PushEnabled:      true,
		AttendanceAlerts: true,
		MarksAlerts:      true,
		ExamAlerts:       true,
		ClassAlerts:      true,
	}
}
