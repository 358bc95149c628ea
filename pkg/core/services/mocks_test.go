package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/db"
)

// mockAvailabilityStore implements the availability store interfaces in memory
type mockAvailabilityStore struct {
	mu sync.Mutex

	shifts    []model.AvailabilityShift
	deleted   []string
	batches   [][]model.PendingShiftEntry
	listErr   error
	createErr error
	deleteErr map[string]error
	updateErr error
	patches   map[string]model.ShiftPatch
	nextID    int

	// createStarted/createRelease let tests hold a submission in flight
	createStarted chan struct{}
	createRelease chan struct{}
}

func (m *mockAvailabilityStore) ListShifts(ctx context.Context) ([]model.AvailabilityShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.AvailabilityShift, len(m.shifts))
	copy(out, m.shifts)
	return out, nil
}

func (m *mockAvailabilityStore) CreateShifts(ctx context.Context, entries []model.PendingShiftEntry) ([]model.AvailabilityShift, error) {
	if m.createStarted != nil {
		close(m.createStarted)
		<-m.createRelease
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batch := make([]model.PendingShiftEntry, len(entries))
	copy(batch, entries)
	m.batches = append(m.batches, batch)

	if m.createErr != nil {
		return nil, m.createErr
	}

	created := make([]model.AvailabilityShift, len(entries))
	for i, e := range entries {
		m.nextID++
		shift := e.AsShift()
		shift.ID = fmt.Sprintf("new-%d", m.nextID)
		created[i] = shift
		m.shifts = append(m.shifts, shift)
	}
	return created, nil
}

func (m *mockAvailabilityStore) UpdateShift(ctx context.Context, id string, patch model.ShiftPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil {
		return m.updateErr
	}
	if m.patches == nil {
		m.patches = make(map[string]model.ShiftPatch)
	}
	m.patches[id] = patch
	return nil
}

func (m *mockAvailabilityStore) DeleteShift(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, id)
	if err, ok := m.deleteErr[id]; ok {
		return err
	}
	for i, s := range m.shifts {
		if s.ID == id {
			m.shifts = append(m.shifts[:i], m.shifts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete availability: %w", db.ErrNotFound)
}

// mockAppointmentStore records appointment updates
type mockAppointmentStore struct {
	updates   map[string]model.AppointmentPatch
	order     []string
	updateErr map[string]error
}

func newMockAppointmentStore() *mockAppointmentStore {
	return &mockAppointmentStore{
		updates:   make(map[string]model.AppointmentPatch),
		updateErr: make(map[string]error),
	}
}

func (m *mockAppointmentStore) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) error {
	m.order = append(m.order, id)
	if err, ok := m.updateErr[id]; ok {
		return err
	}
	m.updates[id] = patch
	return nil
}
