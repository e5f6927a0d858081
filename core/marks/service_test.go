package marks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinctStudentIDs(t *testing.T) {
	tests := []struct {
		name    string
		uploads []NewMark
		want    []int
	}{
		{name: "empty", uploads: nil, want: []int{}},
		{
			name: "no duplicates",
			uploads: []NewMark{
				{StudentID: 3, Subject: "Math"},
				{StudentID: 1, Subject: "Math"},
			},
			want: []int{3, 1},
		},
		{
			name: "dedupes keeping first-seen order",
			uploads: []NewMark{
				{StudentID: 2, Subject: "Math"},
				{StudentID: 1, Subject: "Math"},
				{StudentID: 2, Subject: "Science"},
				{StudentID: 1, Subject: "Science"},
			},
			want: []int{2, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DistinctStudentIDs(tt.uploads))
		})
	}
}
