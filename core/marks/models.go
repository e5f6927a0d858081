package marks

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

type Mark struct {
	ID            int          `json:"id" db:"id"`
	StudentID     int          `json:"student_id" db:"student_id"`
	ClassID       int          `json:"class_id" db:"class_id"`
	Subject       string       `json:"subject" db:"subject"`
	InternalMarks null.Float64 `json:"internal_marks" db:"internal_marks"`
	ExternalMarks null.Float64 `json:"external_marks" db:"external_marks"`
	UploadedBy    int          `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// NewMark uploads one student's marks for a subject. Zero marks are stored
// as NULL, matching the ingestion behavior of the bulk path.
type NewMark struct {
	StudentID int     `json:"studentId" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	Internal  float64 `json:"internal"`
	External  float64 `json:"external"`
}

func (nm *NewMark) Validate() error {
	nm.Subject = core.CleanString(nm.Subject)
	return core.Validate.Struct(nm)
}

func (nm NewMark) record(classID, uploadedBy int) Mark {
	m := Mark{
		StudentID:  nm.StudentID,
		ClassID:    classID,
		Subject:    nm.Subject,
		UploadedBy: uploadedBy,
	}
	if nm.Internal != 0 {
		m.InternalMarks = null.Float64From(nm.Internal)
	}
	if nm.External != 0 {
		m.ExternalMarks = null.Float64From(nm.External)
	}
	return m
}
