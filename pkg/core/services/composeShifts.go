package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
)

// MaxRecurringEntries caps how many pending entries one recurrence rule may expand to
const MaxRecurringEntries = 366

// ComposerState is the lifecycle state of a ShiftComposer
type ComposerState int

const (
	ComposerEmpty ComposerState = iota
	ComposerComposing
	ComposerSubmitting
	ComposerComposingWithErrors
)

func (s ComposerState) String() string {
	switch s {
	case ComposerEmpty:
		return "empty"
	case ComposerComposing:
		return "composing"
	case ComposerSubmitting:
		return "submitting"
	case ComposerComposingWithErrors:
		return "composing-with-errors"
	default:
		return fmt.Sprintf("ComposerState(%d)", int(s))
	}
}

// ShiftCandidate is raw user input for one shift, validated before it is staged
type ShiftCandidate struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Shift     string `json:"shift" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ShiftComposerStore defines the store operations the composer needs
type ShiftComposerStore interface {
	ListShifts(ctx context.Context) ([]model.AvailabilityShift, error)
	CreateShifts(ctx context.Context, entries []model.PendingShiftEntry) ([]model.AvailabilityShift, error)
}

// SubmitResult is the outcome of a successful batch submission
type SubmitResult struct {
	Created   []model.AvailabilityShift
	Refreshed []model.AvailabilityShift
}

// SubmitError wraps a failed batch submission. The pending list is untouched.
type SubmitError struct {
	Count int
	Err   error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to submit %d shifts: %v", e.Count, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text, with field-level server messages joined by newlines
func (e *SubmitError) Message() string {
	var messager interface{ Message() string }
	if errors.As(e.Err, &messager) {
		return messager.Message()
	}
	return e.Err.Error()
}

// ShiftComposer stages shifts locally and submits them as one batch
type ShiftComposer struct {
	store      ShiftComposerStore
	logger     *zap.Logger
	allowNight bool

	mu         sync.Mutex
	pending    []model.PendingShiftEntry
	submitting bool
	lastErr    error
}

// ComposerOption configures a ShiftComposer
type ComposerOption func(*ShiftComposer)

// WithNightShifts allows staging shifts under the Night label
func WithNightShifts(allow bool) ComposerOption {
	return func(c *ShiftComposer) {
		c.allowNight = allow
	}
}

// NewShiftComposer creates an empty composer backed by store
func NewShiftComposer(store ShiftComposerStore, logger *zap.Logger, opts ...ComposerOption) *ShiftComposer {
	c := &ShiftComposer{
		store:   store,
		logger:  logger,
		pending: []model.PendingShiftEntry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the composer's current lifecycle state
func (c *ShiftComposer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.submitting:
		return ComposerSubmitting
	case len(c.pending) == 0:
		return ComposerEmpty
	case c.lastErr != nil:
		return ComposerComposingWithErrors
	default:
		return ComposerComposing
	}
}

// LastError returns the error from the most recent failed submission, if any
func (c *ShiftComposer) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Pending returns a copy of the staged entries in insertion order
func (c *ShiftComposer) Pending() []model.PendingShiftEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.PendingShiftEntry, len(c.pending))
	copy(out, c.pending)
	return out
}

// AddEntry validates the candidate and stages it under a fresh local key.
// Invalid input leaves the pending list unchanged.
func (c *ShiftComposer) AddEntry(candidate ShiftCandidate) (model.PendingShiftEntry, error) {
	entry, err := c.parseCandidate(candidate)
	if err != nil {
		return model.PendingShiftEntry{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return model.PendingShiftEntry{}, ErrSubmitInProgress
	}

	c.warnOnOverlap(entry)
	c.pending = append(c.pending, entry)

	c.logger.Debug("Staged shift",
		zap.String("local_key", entry.LocalKey),
		zap.String("date", entry.Date.String()),
		zap.String("shift", string(entry.Shift)),
		zap.Int("pending", len(c.pending)))

	return entry, nil
}

// AddRecurring stages one entry per occurrence of an RFC 5545 recurrence rule,
// starting at the candidate's date. Either every occurrence is staged or none.
func (c *ShiftComposer) AddRecurring(rule string, candidate ShiftCandidate) ([]model.PendingShiftEntry, error) {
	template, err := c.parseCandidate(candidate)
	if err != nil {
		return nil, err
	}

	dates, err := ExpandRecurrence(rule, template.Date, MaxRecurringEntries)
	if err != nil {
		return nil, err
	}

	entries := make([]model.PendingShiftEntry, len(dates))
	for i, d := range dates {
		entries[i] = template
		entries[i].LocalKey = uuid.New().String()
		entries[i].Date = d
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return nil, ErrSubmitInProgress
	}

	for _, e := range entries {
		c.warnOnOverlap(e)
		c.pending = append(c.pending, e)
	}

	c.logger.Info("Staged recurring shifts",
		zap.String("rule", rule),
		zap.String("shift", string(template.Shift)),
		zap.Int("occurrences", len(entries)),
		zap.Int("pending", len(c.pending)))

	return entries, nil
}

// RemoveEntry unstages the entry with the given local key
func (c *ShiftComposer) RemoveEntry(localKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return false
	}

	for i, e := range c.pending {
		if e.LocalKey == localKey {
			c.pending = append(c.pending[:i:i], c.pending[i+1:]...)
			c.logger.Debug("Removed staged shift", zap.String("local_key", localKey), zap.Int("pending", len(c.pending)))
			return true
		}
	}
	return false
}

// Submit sends every pending entry in a single request. On success the pending
// list is cleared and the availability list is refreshed; on failure the
// pending list is left exactly as it was and a *SubmitError is returned.
func (c *ShiftComposer) Submit(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return nil, ErrNothingToSubmit
	}
	batch := make([]model.PendingShiftEntry, len(c.pending))
	copy(batch, c.pending)
	c.submitting = true
	c.mu.Unlock()

	c.logger.Info("Submitting staged shifts", zap.Int("count", len(batch)))

	created, err := c.store.CreateShifts(ctx, batch)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.lastErr = &SubmitError{Count: len(batch), Err: err}
		submitErr := c.lastErr
		c.mu.Unlock()

		c.logger.Warn("Shift submission rejected", zap.Int("count", len(batch)), zap.Error(err))
		return nil, submitErr
	}
	c.pending = []model.PendingShiftEntry{}
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("Shifts submitted", zap.Int("created", len(created)))

	return &SubmitResult{
		Created:   created,
		Refreshed: ListAvailability(ctx, c.store, c.logger),
	}, nil
}

// parseCandidate validates raw input and converts it to a pending entry
func (c *ShiftComposer) parseCandidate(candidate ShiftCandidate) (model.PendingShiftEntry, error) {
	if err := validateInput(candidate); err != nil {
		return model.PendingShiftEntry{}, err
	}

	date, err := model.ParseDate(candidate.Date)
	if err != nil {
		return model.PendingShiftEntry{}, newValidationError("date", err.Error())
	}

	label, known := model.ParseShiftLabel(candidate.Shift)
	if !known || !label.Creatable(c.allowNight) {
		return model.PendingShiftEntry{}, newValidationError("shift", fmt.Sprintf("%q is not an available shift", candidate.Shift))
	}

	start, err := model.ParseClock(candidate.StartTime)
	if err != nil {
		return model.PendingShiftEntry{}, newValidationError("start_time", err.Error())
	}
	end, err := model.ParseClock(candidate.EndTime)
	if err != nil {
		return model.PendingShiftEntry{}, newValidationError("end_time", err.Error())
	}
	if !start.Before(end) {
		return model.PendingShiftEntry{}, newValidationError("end_time", "must be after start time")
	}

	return model.PendingShiftEntry{
		LocalKey:  uuid.New().String(),
		Date:      date,
		Shift:     label,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// warnOnOverlap logs staged entries whose windows intersect on the same date.
// Overlap is not rejected here; the server owns that rule. Callers hold c.mu.
func (c *ShiftComposer) warnOnOverlap(entry model.PendingShiftEntry) {
	for _, existing := range c.pending {
		if existing.AsShift().Overlaps(entry.AsShift()) {
			c.logger.Warn("Staged shift overlaps another staged shift",
				zap.String("date", entry.Date.String()),
				zap.String("shift", string(entry.Shift)),
				zap.String("other_shift", string(existing.Shift)),
				zap.String("other_local_key", existing.LocalKey))
		}
	}
}

// ExpandRecurrence returns the dates produced by rule starting at start.
// Rules without COUNT or UNTIL are rejected once they exceed limit occurrences.
func ExpandRecurrence(rule string, start model.Date, limit int) ([]model.Date, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if raw == "" {
		return nil, newValidationError("rule", "is required")
	}

	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return nil, newValidationError("rule", fmt.Sprintf("invalid recurrence rule: %v", err))
	}
	opt.Dtstart = start.Time()

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, newValidationError("rule", fmt.Sprintf("invalid recurrence rule: %v", err))
	}

	dates := make([]model.Date, 0)
	next := r.Iterator()
	for {
		occurrence, ok := next()
		if !ok {
			break
		}
		if len(dates) == limit {
			return nil, newValidationError("rule", fmt.Sprintf("expands to more than %d occurrences; add COUNT or UNTIL", limit))
		}
		dates = append(dates, model.DateOf(occurrence.UTC()))
	}

	if len(dates) == 0 {
		return nil, newValidationError("rule", "produces no occurrences")
	}
	return dates, nil
}
