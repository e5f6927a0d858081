// Package sqlxrepos implements the core repository interfaces on sqlx.
// Queries are written with `?` placeholders and rebound for the active
// driver, so the same repositories run on sqlite3 and postgres.
package sqlxrepos

import (
	"database/sql"

	"github.com/pkg/errors"
)

// trapNoRowsErr converts sql.ErrNoRows into the domain sentinel.
func trapNoRowsErr(err, sentinel error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return sentinel
	}
	return err
}
