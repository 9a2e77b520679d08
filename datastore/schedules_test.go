package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakonic/mealping/models"
)

func TestScheduleStore_ReplaceIsWholesale(t *testing.T) {
	store := NewScheduleStore()

	store.Replace("user-1", []string{"08:00", "12:00"}, []models.Food{{ID: "1", Name: "Oats"}})
	store.Replace("user-1", []string{"19:30"}, nil)

	schedule, ok := store.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, []string{"19:30"}, schedule.Times)
	assert.Empty(t, schedule.Foods)
	assert.Equal(t, 1, store.Len())
}

func TestScheduleStore_ReplaceCopiesInput(t *testing.T) {
	store := NewScheduleStore()

	times := []string{"08:00"}
	foods := []models.Food{{ID: "1", Name: "Oats"}}
	store.Replace("user-1", times, foods)

	times[0] = "23:00"
	foods[0].Name = "mutated"

	schedule, _ := store.Get("user-1")
	assert.Equal(t, "08:00", schedule.Times[0])
	assert.Equal(t, "Oats", schedule.Foods[0].Name)
}

func TestScheduleStore_RemoveIsIdempotent(t *testing.T) {
	store := NewScheduleStore()

	assert.NotPanics(t, func() { store.Remove("never-stored") })

	store.Replace("user-1", []string{"08:00"}, nil)
	store.Remove("user-1")
	store.Remove("user-1")

	_, ok := store.Get("user-1")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestScheduleStore_AllIsASnapshot(t *testing.T) {
	store := NewScheduleStore()
	store.Replace("user-1", []string{"08:00"}, nil)

	snapshot := store.All()
	store.Remove("user-1")

	require.Len(t, snapshot, 1)
	assert.Contains(t, snapshot, "user-1")
}
