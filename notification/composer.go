// Package notification builds push payloads from a user's recent foods.
// Composition is pure: no I/O, no mutation, deterministic for a given
// input, which keeps it trivially testable apart from delivery.
package notification

import (
	"fmt"
	"strings"

	"github.com/lakonic/mealping/models"
)

const (
	// Browsers show at most this many action buttons on a notification;
	// further foods are silently dropped from the buttons (their ids still
	// travel in the data payload).
	maxFoodActions = 4

	// Labels longer than maxLabelRunes are cut to labelKeepRunes + "...".
	maxLabelRunes  = 20
	labelKeepRunes = 17

	// Names listed in a default body before collapsing to "+n more".
	maxBodyFoods = 3

	// DefaultTitle is used when the caller supplies no title.
	DefaultTitle = "Meal Reminder 🍽️"

	genericPrompt = "Time to log your meal! What did you eat?"

	notificationIcon = "/icon-192.png"
	notificationTag  = "meal-reminder"
	logRoute         = "/log"

	// ViewAllAction is the trailing action appended after the food buttons.
	ViewAllAction = "view-all"
)

// Compose builds the payload for one reminder. Empty title or body select
// the defaults: the fixed reminder title, and a body naming up to three of
// the supplied foods (or a generic prompt when there are none). The data
// section carries the ids of every food passed in, not just the ones that
// fit as action buttons.
func Compose(foods []models.Food, title, body string) models.NotificationPayload {
	actions := make([]models.NotificationAction, 0, maxFoodActions+1)
	for i, food := range foods {
		if i == maxFoodActions {
			break
		}
		actions = append(actions, models.NotificationAction{
			Action: "food-" + food.ID,
			Title:  truncateLabel(food.Name),
		})
	}
	actions = append(actions, models.NotificationAction{
		Action: ViewAllAction,
		Title:  "View All",
	})

	if title == "" {
		title = DefaultTitle
	}
	if body == "" {
		body = defaultBody(foods)
	}

	foodIDs := make([]string, len(foods))
	for i, food := range foods {
		foodIDs[i] = food.ID
	}

	return models.NotificationPayload{
		Title:   title,
		Body:    body,
		Icon:    notificationIcon,
		Badge:   notificationIcon,
		Tag:     notificationTag,
		Data: models.NotificationData{
			URL:   logRoute,
			Foods: foodIDs,
		},
		Actions: actions,
	}
}

// FoodSummary names up to three foods, comma-joined, with a " +n more"
// suffix counting whatever was passed in beyond the third.
func FoodSummary(foods []models.Food) string {
	names := make([]string, 0, maxBodyFoods)
	for i, food := range foods {
		if i == maxBodyFoods {
			break
		}
		names = append(names, food.Name)
	}

	summary := strings.Join(names, ", ")
	if extra := len(foods) - maxBodyFoods; extra > 0 {
		summary += fmt.Sprintf(" +%d more", extra)
	}
	return summary
}

func defaultBody(foods []models.Food) string {
	if len(foods) == 0 {
		return genericPrompt
	}
	return FoodSummary(foods)
}

// truncateLabel keeps a food name readable as a button label. Counted in
// runes so multi-byte names are not cut mid-character.
func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= maxLabelRunes {
		return name
	}
	return string(runes[:labelKeepRunes]) + "..."
}
