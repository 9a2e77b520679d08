package notification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakonic/mealping/models"
)

func foods(names ...string) []models.Food {
	out := make([]models.Food, len(names))
	for i, name := range names {
		out[i] = models.Food{ID: string(rune('1' + i)), Name: name}
	}
	return out
}

func TestCompose_EmptyFoodList(t *testing.T) {
	payload := Compose(nil, "", "")

	require.Len(t, payload.Actions, 1)
	assert.Equal(t, ViewAllAction, payload.Actions[0].Action)
	assert.Equal(t, DefaultTitle, payload.Title)
	assert.Equal(t, "Time to log your meal! What did you eat?", payload.Body)
	assert.Equal(t, "/log", payload.Data.URL)
	assert.Empty(t, payload.Data.Foods)
}

func TestCompose_SixFoods(t *testing.T) {
	input := []models.Food{
		{ID: "1", Name: "Chicken Breast"},
		{ID: "2", Name: "Rice"},
		{ID: "3", Name: "Broccoli"},
		{ID: "4", Name: "Eggs"},
		{ID: "5", Name: "Yogurt"},
		{ID: "6", Name: "Apple"},
	}
	payload := Compose(input, "", "")

	// First 4 foods become buttons, plus the trailing view-all.
	require.Len(t, payload.Actions, 5)
	assert.Equal(t, "food-1", payload.Actions[0].Action)
	assert.Equal(t, "food-4", payload.Actions[3].Action)
	assert.Equal(t, ViewAllAction, payload.Actions[4].Action)

	// The data payload still references every food, not just the 4 shown.
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, payload.Data.Foods)

	assert.Equal(t, "Chicken Breast, Rice, Broccoli +3 more", payload.Body)
}

func TestCompose_ExplicitTitleAndBodyPassThrough(t *testing.T) {
	payload := Compose(nil, "Welcome!", "Notifications enabled.")
	assert.Equal(t, "Welcome!", payload.Title)
	assert.Equal(t, "Notifications enabled.", payload.Body)
}

func TestCompose_ActionLabelTruncation(t *testing.T) {
	exactly20 := strings.Repeat("a", 20)
	exactly21 := strings.Repeat("b", 21)

	payload := Compose(foods(exactly20, exactly21), "", "")

	require.Len(t, payload.Actions, 3)
	assert.Equal(t, exactly20, payload.Actions[0].Title)
	assert.Equal(t, strings.Repeat("b", 17)+"...", payload.Actions[1].Title)
}

func TestCompose_TruncationIsRuneAware(t *testing.T) {
	name := strings.Repeat("é", 25)
	payload := Compose(foods(name), "", "")

	assert.Equal(t, strings.Repeat("é", 17)+"...", payload.Actions[0].Title)
}

func TestCompose_FixedFields(t *testing.T) {
	payload := Compose(foods("Oats"), "", "")

	assert.Equal(t, "/icon-192.png", payload.Icon)
	assert.Equal(t, "/icon-192.png", payload.Badge)
	assert.Equal(t, "meal-reminder", payload.Tag)
}

func TestFoodSummary(t *testing.T) {
	assert.Equal(t, "Oats", FoodSummary(foods("Oats")))
	assert.Equal(t, "Oats, Rice, Eggs", FoodSummary(foods("Oats", "Rice", "Eggs")))
	assert.Equal(t, "Oats, Rice, Eggs +2 more", FoodSummary(foods("Oats", "Rice", "Eggs", "Tofu", "Kale")))
}

func TestCompose_IsDeterministicAndPure(t *testing.T) {
	input := foods("Oats", "Rice")
	first := Compose(input, "", "")
	second := Compose(input, "", "")

	assert.Equal(t, first, second)
	assert.Equal(t, "Oats", input[0].Name)
}
