package datastore

import (
	"sync"

	"github.com/lakonic/mealping/models"
)

// ScheduleStore maps derived user identifiers to their reminder schedule.
// A schedule may outlive its subscription and vice versa; the evaluator
// treats either orphan as a skip, not an error.
type ScheduleStore struct {
	mu        sync.Mutex
	schedules map[string]models.Schedule
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		schedules: make(map[string]models.Schedule),
	}
}

// Replace stores the schedule for userID wholesale, discarding whatever
// was there before. Times are validated by the caller; the slices are
// copied so later mutation of the arguments cannot reach the store.
func (s *ScheduleStore) Replace(userID string, times []string, foods []models.Food) {
	schedule := models.Schedule{
		Times: append([]string(nil), times...),
		Foods: append([]models.Food(nil), foods...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedules[userID] = schedule
}

func (s *ScheduleStore) Get(userID string) (models.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, ok := s.schedules[userID]
	return schedule, ok
}

// Remove deletes the schedule for userID; idempotent.
func (s *ScheduleStore) Remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.schedules, userID)
}

// All returns a snapshot of every stored schedule keyed by identifier.
// Order is unspecified; used for the debug view only.
func (s *ScheduleStore) All() map[string]models.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]models.Schedule, len(s.schedules))
	for id, schedule := range s.schedules {
		snapshot[id] = schedule
	}
	return snapshot
}

func (s *ScheduleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.schedules)
}
