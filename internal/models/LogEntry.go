package models

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type FoodItem struct {
	Name        string `json:"name" validate:"required"`
	Calories    int    `json:"calories" validate:"min:0"`
	Protein     int    `json:"protein,omitempty" validate:"min:0"`
	Carbs       int    `json:"carbs,omitempty" validate:"min:0"`
	Fats        int    `json:"fats,omitempty" validate:"min:0"`
	ServingSize string `json:"servingSize,omitempty"`
}

// LogEntry is one logged meal. DateKey and CreatedAt are always assigned
// from corrected time, never taken from the client.
type LogEntry struct {
	ID            string     `json:"id"`
	DateKey       string     `json:"dateKey"`
	Name          string     `json:"name,omitempty"`
	MealType      MealType   `json:"mealType"`
	IsEaten       bool       `json:"isEaten"`
	TimeEaten     string     `json:"timeEaten,omitempty"`
	TotalCalories int        `json:"totalCalories"`
	TotalProtein  int        `json:"totalProtein"`
	TotalCarbs    int        `json:"totalCarbs"`
	TotalFats     int        `json:"totalFats"`
	Items         []FoodItem `json:"items,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (e *LogEntry) Clone() *LogEntry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Items != nil {
		c.Items = make([]FoodItem, len(e.Items))
		copy(c.Items, e.Items)
	}
	return &c
}

// InputLog is the body of a new log request.
type InputLog struct {
	Name          string     `json:"name"`
	MealType      string     `json:"mealType" validate:"required|in:breakfast,lunch,dinner,snack"`
	IsEaten       bool       `json:"isEaten"`
	TimeEaten     string     `json:"timeEaten"`
	TotalCalories int        `json:"totalCalories" validate:"min:0"`
	TotalProtein  int        `json:"totalProtein" validate:"min:0"`
	TotalCarbs    int        `json:"totalCarbs" validate:"min:0"`
	TotalFats     int        `json:"totalFats" validate:"min:0"`
	Items         []FoodItem `json:"items"`
}
