package services

import (
	"calsurf/internal/models"
	"calsurf/internal/truetime"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	weekDays  = 7
	monthDays = 30
	yearDays  = 365
	// a month counts as met when it holds this many goal-days of calories
	monthlyGoalDays = 25
)

var weekdayInitials = [7]string{"S", "M", "T", "W", "T", "F", "S"}

// dailyTotals sums eaten entries per DateKey. Keys with only uneaten entries
// are present with zero totals.
func dailyTotals(entries []*models.LogEntry) map[truetime.DateKey]*models.DayTotals {
	days := make(map[truetime.DateKey]*models.DayTotals)
	for _, e := range entries {
		key := truetime.DateKey(e.DateKey)
		d, ok := days[key]
		if !ok {
			d = &models.DayTotals{}
			days[key] = d
		}
		if !e.IsEaten {
			continue
		}
		d.Calories += e.TotalCalories
		d.Protein += e.TotalProtein
		d.Carbs += e.TotalCarbs
		d.Fats += e.TotalFats
	}
	return days
}

func totalsFor(days map[truetime.DateKey]*models.DayTotals, key truetime.DateKey) models.DayTotals {
	if d, ok := days[key]; ok {
		return *d
	}
	return models.DayTotals{}
}

func average(total, n int) int {
	return int(math.Round(float64(total) / float64(n)))
}

func (s *LogService) GetHistory(user string) []*models.HistoryDay {
	cal := s.calendar.Current()
	groups := make(map[string]*models.HistoryDay)
	for _, e := range s.store.List(userOrDefault(user)) {
		day, ok := groups[e.DateKey]
		if !ok {
			day = &models.HistoryDay{DateKey: e.DateKey, Items: []*models.LogEntry{}}
			groups[e.DateKey] = day
		}
		if e.IsEaten {
			day.Calories += e.TotalCalories
			day.Protein += e.TotalProtein
			day.Items = append(day.Items, e)
		}
	}

	out := make([]*models.HistoryDay, 0, len(groups))
	for _, day := range groups {
		day.Label = cal.Label(day.DateKey)
		day.MetGoal = day.Calories >= s.goals.Calories
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	return out
}

func (s *LogService) GetStats(user string, view models.StatsView) (*models.StatsReport, error) {
	if view == "" {
		view = models.ViewDay
	}
	if !view.Valid() {
		return nil, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, view)
	}

	entries := s.store.List(userOrDefault(user))
	days := dailyTotals(entries)
	today := s.calendar.Current().TodayKey()
	goal := s.goals.Calories

	report := &models.StatsReport{
		View:           view,
		Today:          today.String(),
		Chart:          []models.ChartPoint{},
		MonthlyBestDay: "-",
	}

	switch view {
	case models.ViewDay:
		t := totalsFor(days, today)
		report.TotalCalories = t.Calories
		report.AvgProtein = t.Protein
		report.AvgCarbs = t.Carbs
		report.AvgFats = t.Fats
	case models.ViewWeek:
		var sum models.DayTotals
		for i := weekDays - 1; i >= 0; i-- {
			key := today.AddDays(-i)
			t := totalsFor(days, key)
			report.Chart = append(report.Chart, models.ChartPoint{
				Label:   weekdayInitials[key.Weekday()],
				Value:   t.Calories,
				MetGoal: t.Calories >= goal,
			})
			addTotals(&sum, t)
			if t.Calories > report.HighestCalorieDay {
				report.HighestCalorieDay = t.Calories
			}
		}
		setAverages(report, sum, weekDays)
	case models.ViewMonth:
		var sum models.DayTotals
		for i := monthDays - 1; i >= 0; i-- {
			key := today.AddDays(-i)
			t := totalsFor(days, key)
			if i%2 == 0 {
				report.Chart = append(report.Chart, models.ChartPoint{
					Label:   fmt.Sprint(key.Day()),
					Value:   t.Calories,
					MetGoal: t.Calories >= goal,
				})
			}
			addTotals(&sum, t)
		}
		setAverages(report, sum, monthDays)
	case models.ViewYear:
		var monthly [12]int
		for key, t := range days {
			if key.Valid() && key.Year() == today.Year() {
				monthly[key.Month()-1] += t.Calories
			}
		}
		for i, val := range monthly {
			report.Chart = append(report.Chart, models.ChartPoint{
				Label:   time.Month(i + 1).String()[:3],
				Value:   val,
				MetGoal: val > goal*monthlyGoalDays,
			})
			report.TotalCalories += val
		}
		report.AvgCalories = average(report.TotalCalories, yearDays)
	}

	report.Streak = streak(days, today)
	for _, e := range entries {
		if e.IsEaten && e.DateKey == today.String() {
			report.MealsToday++
		}
	}
	monthlyHighlights(report, days, today, goal)
	return report, nil
}

func addTotals(sum *models.DayTotals, t models.DayTotals) {
	sum.Calories += t.Calories
	sum.Protein += t.Protein
	sum.Carbs += t.Carbs
	sum.Fats += t.Fats
}

func setAverages(report *models.StatsReport, sum models.DayTotals, n int) {
	report.TotalCalories = sum.Calories
	report.AvgCalories = average(sum.Calories, n)
	report.AvgProtein = average(sum.Protein, n)
	report.AvgCarbs = average(sum.Carbs, n)
	report.AvgFats = average(sum.Fats, n)
}

// dayNumber maps a key onto days since the Unix epoch.
func dayNumber(key truetime.DateKey) (uint32, bool) {
	t, ok := key.Time()
	if !ok || t.Unix() < 0 {
		return 0, false
	}
	return uint32(t.Unix() / 86400), true
}

// activeDays indexes the days that have eaten calories.
func activeDays(days map[truetime.DateKey]*models.DayTotals) *roaring.Bitmap {
	bm := roaring.New()
	for key, d := range days {
		if d.Calories <= 0 {
			continue
		}
		if n, ok := dayNumber(key); ok {
			bm.Add(n)
		}
	}
	return bm
}

// streak counts consecutive days with eaten calories, walking back from today.
func streak(days map[truetime.DateKey]*models.DayTotals, today truetime.DateKey) int {
	n, ok := dayNumber(today)
	if !ok {
		return 0
	}
	active := activeDays(days)
	count := 0
	for active.Contains(n) {
		count++
		if n == 0 {
			break
		}
		n--
	}
	return count
}

func monthlyHighlights(report *models.StatsReport, days map[truetime.DateKey]*models.DayTotals, today truetime.DateKey, goal int) {
	keys := make([]truetime.DateKey, 0, len(days))
	for key := range days {
		if key.Valid() && key.Year() == today.Year() && key.Month() == today.Month() {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	bestScore := 0
	var best truetime.DateKey
	for _, key := range keys {
		d := days[key]
		if d.Calories > report.MonthlyHighestCalories {
			report.MonthlyHighestCalories = d.Calories
		}
		if d.Protein > report.MonthlyHighestProtein {
			report.MonthlyHighestProtein = d.Protein
		}
		if d.Calories >= goal && d.Calories+d.Protein > bestScore {
			bestScore = d.Calories + d.Protein
			best = key
		}
	}

	if best == "" && report.MonthlyHighestCalories > 0 {
		for _, key := range keys {
			if days[key].Calories == report.MonthlyHighestCalories {
				best = key
			}
		}
	}
	if best != "" {
		report.MonthlyBestDay = truetime.ShortLabel(best.String())
	}
}
