package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
)

// AppointmentUpdater defines the store operation used to persist a reschedule
type AppointmentUpdater interface {
	UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) error
}

// RescheduleTarget is raw user input for the new date and time
type RescheduleTarget struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required"`
}

// RescheduleFailure records one appointment whose update failed
type RescheduleFailure struct {
	ID  string
	Err error
}

// RescheduleResult reports which selected appointments were moved
type RescheduleResult struct {
	Date    model.Date
	Time    model.Clock
	Updated []string
	Failed  []RescheduleFailure
}

// SelectionSet tracks a user-selected subset of an in-memory working set of
// appointments and applies batch actions to it
type SelectionSet struct {
	mu       sync.Mutex
	records  []model.AppointmentRecord
	selected map[string]struct{}
}

// NewSelectionSet creates a selection over a copy of records
func NewSelectionSet(records []model.AppointmentRecord) *SelectionSet {
	working := make([]model.AppointmentRecord, len(records))
	copy(working, records)
	return &SelectionSet{
		records:  working,
		selected: make(map[string]struct{}),
	}
}

// Reset replaces the working set, e.g. after a re-list, and clears the selection
func (s *SelectionSet) Reset(records []model.AppointmentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]model.AppointmentRecord, len(records))
	copy(s.records, records)
	s.selected = make(map[string]struct{})
}

// Records returns a copy of the working set
func (s *SelectionSet) Records() []model.AppointmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AppointmentRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Toggle adds id to the selection, or removes it if already selected.
// It returns whether id is selected afterwards.
func (s *SelectionSet) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// IsSelected reports whether id is currently selected
func (s *SelectionSet) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.selected[id]
	return ok
}

// Selected returns the selected ids in working-set order, followed by any
// selected ids that are not in the working set
func (s *SelectionSet) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

// Clear empties the selection
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// ApplyReschedule moves every selected appointment to the same new date and
// time, issuing one update per appointment. Updates are not atomic: if any
// fail, the successful ones stay applied and the error wraps
// ErrPartialReschedule; callers should re-list to learn the true state.
// Unselected appointments are never touched. The selection is cleared once
// every update has been attempted.
func (s *SelectionSet) ApplyReschedule(ctx context.Context, store AppointmentUpdater, logger *zap.Logger, target RescheduleTarget) (*RescheduleResult, error) {
	if err := validateInput(target); err != nil {
		return nil, err
	}
	date, err := model.ParseDate(target.Date)
	if err != nil {
		return nil, newValidationError("date", err.Error())
	}
	clock, err := model.ParseClock(target.Time)
	if err != nil {
		return nil, newValidationError("time", err.Error())
	}

	s.mu.Lock()
	ids := s.selectedLocked()
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	logger.Info("Rescheduling selected appointments",
		zap.Int("count", len(ids)),
		zap.String("date", date.String()),
		zap.String("time", clock.Display()))

	result := &RescheduleResult{Date: date, Time: clock}
	patch := model.AppointmentPatch{Date: date, Time: clock}

	for _, id := range ids {
		if err := store.UpdateAppointment(ctx, id, patch); err != nil {
			logger.Warn("Failed to reschedule appointment", zap.String("id", id), zap.Error(err))
			result.Failed = append(result.Failed, RescheduleFailure{ID: id, Err: err})
			continue
		}
		result.Updated = append(result.Updated, id)
	}

	s.mu.Lock()
	updated := make(map[string]struct{}, len(result.Updated))
	for _, id := range result.Updated {
		updated[id] = struct{}{}
	}
	for i := range s.records {
		if _, ok := updated[s.records[i].ID]; ok {
			s.records[i].Date = date
			s.records[i].Time = clock
		}
	}
	s.selected = make(map[string]struct{})
	s.mu.Unlock()

	if len(result.Failed) > 0 {
		failedIDs := make([]string, len(result.Failed))
		for i, f := range result.Failed {
			failedIDs[i] = f.ID
		}
		return result, fmt.Errorf("%w: %d of %d failed (%s)",
			ErrPartialReschedule, len(result.Failed), len(ids), strings.Join(failedIDs, ", "))
	}

	logger.Info("Appointments rescheduled", zap.Int("count", len(result.Updated)))
	return result, nil
}

// CancelSelected removes every selected appointment from the working set and
// clears the selection. It returns the removed records.
func (s *SelectionSet) CancelSelected() []model.AppointmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.AppointmentRecord, 0, len(s.records))
	removed := make([]model.AppointmentRecord, 0, len(s.selected))
	for _, rec := range s.records {
		if _, ok := s.selected[rec.ID]; ok {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}

	s.records = kept
	s.selected = make(map[string]struct{})
	return removed
}

func (s *SelectionSet) selectedLocked() []string {
	ids := make([]string, 0, len(s.selected))
	seen := make(map[string]struct{}, len(s.selected))
	for _, rec := range s.records {
		if _, ok := s.selected[rec.ID]; ok {
			if _, dup := seen[rec.ID]; !dup {
				ids = append(ids, rec.ID)
				seen[rec.ID] = struct{}{}
			}
		}
	}

	var orphans []string
	for id := range s.selected {
		if _, ok := seen[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return append(ids, orphans...)
}
