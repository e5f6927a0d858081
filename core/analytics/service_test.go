package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	Repository

	countAttendanceFunc func(ctx context.Context, studentID int, startDate, endDate string) (AttendanceCounts, error)
	trendFunc           func(ctx context.Context, classID int, startDate, endDate string) ([]TrendPoint, error)
}

func (f fakeRepository) CountAttendance(ctx context.Context, studentID int, startDate, endDate string) (AttendanceCounts, error) {
	return f.countAttendanceFunc(ctx, studentID, startDate, endDate)
}

func (f fakeRepository) QueryAttendanceTrend(ctx context.Context, classID int, startDate, endDate string) ([]TrendPoint, error) {
	return f.trendFunc(ctx, classID, startDate, endDate)
}

func TestService_StudentStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// windows derived from the fixed clock
	today := "2026-03-10"
	lastWeekEnd := "2026-03-03"
	lastWeekStart := "2026-02-24"

	newSvc := func(lastWeek, prevWeek AttendanceCounts, overall AttendanceCounts) *Service {
		svc := NewService(fakeRepository{
			countAttendanceFunc: func(ctx context.Context, studentID int, startDate, endDate string) (AttendanceCounts, error) {
				switch {
				case startDate == lastWeekEnd && endDate == today:
					return lastWeek, nil
				case startDate == lastWeekStart && endDate == lastWeekEnd:
					return prevWeek, nil
				default:
					return overall, nil
				}
			},
		})
		svc.NowFunc = func() time.Time { return now }
		return svc
	}

	t.Run("totals and percentage", func(t *testing.T) {
		svc := newSvc(AttendanceCounts{}, AttendanceCounts{}, AttendanceCounts{TotalDays: 3, PresentDays: 2, AbsentDays: 1})
		stats, err := svc.StudentStats(ctx, 1, "", "")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalDays)
		assert.Equal(t, 2, stats.PresentDays)
		assert.Equal(t, 1, stats.AbsentDays)
		assert.Equal(t, 66.67, stats.AttendancePercentage)
	})

	t.Run("no records at all", func(t *testing.T) {
		svc := newSvc(AttendanceCounts{}, AttendanceCounts{}, AttendanceCounts{})
		stats, err := svc.StudentStats(ctx, 1, "", "")
		require.NoError(t, err)
		assert.Zero(t, stats.AttendancePercentage)
		assert.Equal(t, TrendStable, stats.Trend)
	})

	trendTests := []struct {
		name     string
		lastWeek AttendanceCounts
		prevWeek AttendanceCounts
		want     string
	}{
		{
			name:     "improving",
			lastWeek: AttendanceCounts{TotalDays: 5, PresentDays: 5},
			prevWeek: AttendanceCounts{TotalDays: 5, PresentDays: 3},
			want:     TrendImproving,
		},
		{
			name:     "declining",
			lastWeek: AttendanceCounts{TotalDays: 5, PresentDays: 2},
			prevWeek: AttendanceCounts{TotalDays: 5, PresentDays: 4},
			want:     TrendDeclining,
		},
		{
			name:     "within the band",
			lastWeek: AttendanceCounts{TotalDays: 100, PresentDays: 82},
			prevWeek: AttendanceCounts{TotalDays: 100, PresentDays: 80},
			want:     TrendStable,
		},
		{
			name:     "identical weeks",
			lastWeek: AttendanceCounts{TotalDays: 5, PresentDays: 4},
			prevWeek: AttendanceCounts{TotalDays: 5, PresentDays: 4},
			want:     TrendStable,
		},
	}
	for _, tt := range trendTests {
		t.Run("trend "+tt.name, func(t *testing.T) {
			svc := newSvc(tt.lastWeek, tt.prevWeek, AttendanceCounts{TotalDays: 1, PresentDays: 1})
			stats, err := svc.StudentStats(ctx, 1, "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats.Trend)
		})
	}
}

func TestService_AttendanceTrend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	var gotStart, gotEnd string
	svc := NewService(fakeRepository{
		trendFunc: func(ctx context.Context, classID int, startDate, endDate string) ([]TrendPoint, error) {
			gotStart, gotEnd = startDate, endDate
			return []TrendPoint{}, nil
		},
	})
	svc.NowFunc = func() time.Time { return now }

	_, err := svc.AttendanceTrend(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", gotStart)
	assert.Equal(t, "2026-03-10", gotEnd)
}

func Test_percentage(t *testing.T) {
	assert.Equal(t, 0.0, percentage(3, 0))
	assert.Equal(t, 50.0, percentage(1, 2))
	assert.Equal(t, 100.0, percentage(4, 4))
}
