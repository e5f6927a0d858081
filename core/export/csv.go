package export

import (
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// RenderCSV renders the report consumed by the office spreadsheet import:
// a plain header line, then every data cell wrapped in double quotes, lines
// joined with \n. Cells are not escaped; quotes or commas inside values are
// not supported by the downstream tooling either.
func RenderCSV(headers []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = `"` + cell + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func nullStr(s null.String) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func nullFloat(f null.Float64) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}
