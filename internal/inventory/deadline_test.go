package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venuebook/bookgo/internal/domain"
)

func TestResolveDeadline_StructuredFieldWins(t *testing.T) {
	structured := time.Date(2025, 2, 1, 12, 0, 0, 0, time.Local)
	rec := domain.ProgramRecord{
		Deadline: &structured,
		Note:     "Sales Deadline: 2025-01-01 10:00",
		StartsAt: time.Date(2025, 3, 1, 18, 0, 0, 0, time.Local),
	}

	dl := ResolveDeadline(rec)

	require.NotNil(t, dl)
	assert.True(t, dl.Equal(structured))
}

func TestResolveDeadline_FromNote(t *testing.T) {
	rec := domain.ProgramRecord{
		Note:     "Limited seats. Sales Deadline: 2025-01-01 10:00",
		StartsAt: time.Date(2025, 3, 1, 18, 0, 0, 0, time.Local),
	}

	dl := ResolveDeadline(rec)

	require.NotNil(t, dl)
	assert.True(t, dl.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)))
}

func TestResolveDeadline_NoteVariants(t *testing.T) {
	for _, note := range []string{
		"Deadline: 2025-01-01 10:00",
		"Ticket Deadline: 2025-01-01 10:00",
		"sales deadline: 2025-01-01 10:00",
		"Deadline: 2025-01-01T10:00",
	} {
		dl := ResolveDeadline(domain.ProgramRecord{Note: note})
		require.NotNil(t, dl, note)
		assert.True(t, dl.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)), note)
	}
}

func TestResolveDeadline_UnparseableCaptureFallsThrough(t *testing.T) {
	starts := time.Date(2025, 3, 1, 18, 0, 0, 0, time.Local)
	rec := domain.ProgramRecord{
		Note:     "Deadline: 2025-13-45 99:99",
		StartsAt: starts,
	}

	dl := ResolveDeadline(rec)

	require.NotNil(t, dl)
	assert.True(t, dl.Equal(starts), "bad capture must fall through to event start")
}

func TestResolveDeadline_FallsBackToEventStart(t *testing.T) {
	starts := time.Date(2025, 3, 1, 18, 0, 0, 0, time.Local)
	rec := domain.ProgramRecord{StartsAt: starts}

	dl := ResolveDeadline(rec)

	require.NotNil(t, dl)
	assert.True(t, dl.Equal(starts))
}

func TestResolveDeadline_NothingResolves(t *testing.T) {
	assert.Nil(t, ResolveDeadline(domain.ProgramRecord{}))
}

func TestPassed_StrictlyAfter(t *testing.T) {
	dl := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)

	assert.False(t, Passed(dl, &dl), "equality is not passed")
	assert.False(t, Passed(dl.Add(-time.Second), &dl))
	assert.True(t, Passed(dl.Add(time.Second), &dl))
}

func TestPassed_NilDeadlineNeverPasses(t *testing.T) {
	assert.False(t, Passed(time.Now().Add(100*time.Hour), nil))
}

func TestDeadline_CombinedEvaluation(t *testing.T) {
	rec := domain.ProgramRecord{Note: "Sales Deadline: 2025-01-01 10:00"}

	after := time.Date(2025, 1, 1, 10, 0, 1, 0, time.Local)
	sd := Deadline(rec, after)

	require.NotNil(t, sd.Instant)
	assert.True(t, sd.Passed)

	before := time.Date(2025, 1, 1, 9, 59, 59, 0, time.Local)
	assert.False(t, Deadline(rec, before).Passed)
}
