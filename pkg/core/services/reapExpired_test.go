package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/db"
)

func TestReapExpired_DeletesOnlyPastShifts(t *testing.T) {
	store := &mockAvailabilityStore{
		shifts: []model.AvailabilityShift{
			{ID: "old", Date: model.MustParseDate("2025-01-01"), Shift: model.ShiftMorning},
			{ID: "future", Date: model.MustParseDate("2099-01-01"), Shift: model.ShiftMorning},
		},
	}

	removed := ReapExpired(context.Background(), store, zap.NewNop(), model.MustParseDate("2025-06-01"))

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"old"}, store.deleted)
}

func TestReapExpired_TodayIsNotExpired(t *testing.T) {
	today := model.MustParseDate("2025-06-01")
	store := &mockAvailabilityStore{
		shifts: []model.AvailabilityShift{
			{ID: "today", Date: today, Shift: model.ShiftMorning},
			{ID: "yesterday", Date: today.AddDays(-1), Shift: model.ShiftEvening},
			{ID: "undated", Shift: model.ShiftEvening},
		},
	}

	removed := ReapExpired(context.Background(), store, zap.NewNop(), today)

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"yesterday"}, store.deleted)
}

func TestReapExpired_IsIdempotent(t *testing.T) {
	today := model.MustParseDate("2025-06-01")
	store := &mockAvailabilityStore{
		shifts: []model.AvailabilityShift{
			{ID: "a", Date: model.MustParseDate("2025-01-01")},
			{ID: "b", Date: model.MustParseDate("2025-05-31")},
			{ID: "c", Date: model.MustParseDate("2025-07-01")},
		},
	}

	first := ReapExpired(context.Background(), store, zap.NewNop(), today)
	second := ReapExpired(context.Background(), store, zap.NewNop(), today)

	assert.Equal(t, 2, first)
	assert.Equal(t, 0, second)
	assert.Len(t, store.deleted, 2, "second run should issue no deletes")
}

func TestReapExpired_SwallowsFailures(t *testing.T) {
	store := &mockAvailabilityStore{
		shifts: []model.AvailabilityShift{
			{ID: "gone", Date: model.MustParseDate("2025-01-01")},
			{ID: "broken", Date: model.MustParseDate("2025-01-02")},
			{ID: "ok", Date: model.MustParseDate("2025-01-03")},
		},
		deleteErr: map[string]error{
			"gone":   fmt.Errorf("delete availability: %w", db.ErrNotFound),
			"broken": errors.New("server error"),
		},
	}

	removed := ReapExpired(context.Background(), store, zap.NewNop(), model.MustParseDate("2025-06-01"))

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"gone", "broken", "ok"}, store.deleted, "every expired shift is attempted")
}

func TestReapExpired_ListFailureRemovesNothing(t *testing.T) {
	store := &mockAvailabilityStore{listErr: errors.New("timeout")}

	removed := ReapExpired(context.Background(), store, zap.NewNop(), model.MustParseDate("2025-06-01"))

	assert.Equal(t, 0, removed)
	assert.Empty(t, store.deleted)
}

func TestReapExpired_CancelledContextStopsDeleting(t *testing.T) {
	store := &mockAvailabilityStore{
		shifts: []model.AvailabilityShift{
			{ID: "a", Date: model.MustParseDate("2025-01-01")},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	removed := ReapExpired(ctx, store, zap.NewNop(), model.MustParseDate("2025-06-01"))

	assert.Equal(t, 0, removed)
	assert.Empty(t, store.deleted)
}

func TestReapInBackground_SignalsRefresh(t *testing.T) {
	store := &mockAvailabilityStore{
		shifts: []model.AvailabilityShift{
			{ID: "a", Date: model.MustParseDate("2025-01-01")},
		},
	}

	refreshed := make(chan int, 1)
	done := ReapInBackground(context.Background(), store, zap.NewNop(), model.MustParseDate("2025-06-01"), func(removed int) {
		refreshed <- removed
	})

	select {
	case removed := <-done:
		assert.Equal(t, 1, removed)
	case <-time.After(time.Second):
		t.Fatal("reaper did not finish")
	}

	select {
	case removed := <-refreshed:
		assert.Equal(t, 1, removed)
	case <-time.After(time.Second):
		t.Fatal("refresh callback not invoked")
	}
}

func TestReapInBackground_NoRefreshWhenNothingRemoved(t *testing.T) {
	store := &mockAvailabilityStore{}
	called := false

	done := ReapInBackground(context.Background(), store, zap.NewNop(), model.MustParseDate("2025-06-01"), func(int) {
		called = true
	})

	removed, ok := <-done
	require.True(t, ok)
	assert.Equal(t, 0, removed)

	// done is closed after the callback would have run
	_, ok = <-done
	assert.False(t, ok)
	assert.False(t, called)
}
