package models

type StatsView string

const (
	ViewDay   StatsView = "day"
	ViewWeek  StatsView = "week"
	ViewMonth StatsView = "month"
	ViewYear  StatsView = "year"
)

func (v StatsView) Valid() bool {
	switch v {
	case ViewDay, ViewWeek, ViewMonth, ViewYear:
		return true
	}
	return false
}

type DayTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

type ChartPoint struct {
	Label   string `json:"label"`
	Value   int    `json:"value"`
	MetGoal bool   `json:"metGoal"`
}

type StatsReport struct {
	View                   StatsView    `json:"view"`
	Today                  string       `json:"today"`
	Chart                  []ChartPoint `json:"chart"`
	TotalCalories          int          `json:"totalCalories"`
	AvgCalories            int          `json:"avgCalories"`
	AvgProtein             int          `json:"avgProtein"`
	AvgCarbs               int          `json:"avgCarbs"`
	AvgFats                int          `json:"avgFats"`
	HighestCalorieDay      int          `json:"highestCalorieDay"`
	Streak                 int          `json:"streak"`
	MealsToday             int          `json:"mealsToday"`
	MonthlyHighestCalories int          `json:"monthlyHighestCalories"`
	MonthlyHighestProtein  int          `json:"monthlyHighestProtein"`
	MonthlyBestDay         string       `json:"monthlyBestDay"`
}

type HistoryDay struct {
	DateKey  string      `json:"dateKey"`
	Label    string      `json:"label"`
	Calories int         `json:"calories"`
	Protein  int         `json:"protein"`
	MetGoal  bool        `json:"metGoal"`
	Items    []*LogEntry `json:"items"`
}
