package services

import (
	"calsurf/internal/models"
	"calsurf/internal/providers"
	"calsurf/internal/structures"
	"calsurf/internal/truetime"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gookit/validate"
)

const DefaultUser = "default"

var (
	ErrNotFound     = errors.New("log entry not found")
	ErrInvalidInput = errors.New("invalid input")
)

// CalendarSource hands out the corrected calendar once reconciliation has
// settled. *truetime.Keeper satisfies it.
type CalendarSource interface {
	WaitReady(ctx context.Context) error
	Ready() bool
	Current() *truetime.Calendar
}

type LogServiceInterface interface {
	AddLog(ctx context.Context, user string, input *models.InputLog) (*models.LogEntry, error)
	ToggleEaten(user, id string) (*models.LogEntry, error)
	DeleteLog(user, id string) error
	GetLogs(user string) []*models.LogEntry
	GetToday(user string) []*models.LogEntry
	GetHistory(user string) []*models.HistoryDay
	GetStats(user string, view models.StatsView) (*models.StatsReport, error)
	Revision(user string) uint64
	TodayKey() string
	Users() []string
	LogsCount() int
	GetSnapshot() *models.Storage
	PutUserData(user string, entries []*models.LogEntry)
}

type LogService struct {
	store    *models.LogStore
	calendar CalendarSource
	goals    structures.GoalsConfig
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	newID    func() string
}

func NewLogService(conf *structures.Config, calendar CalendarSource, logger providers.Logger, metrics providers.MetricsProviderInterface) LogServiceInterface {
	goals := conf.Goals
	if goals.Calories <= 0 {
		goals.Calories = 2000
	}
	return &LogService{
		store:    models.NewLogStore(),
		calendar: calendar,
		goals:    goals,
		logger:   logger,
		metrics:  metrics,
		newID:    uuid.NewString,
	}
}

func userOrDefault(user string) string {
	if user == "" {
		return DefaultUser
	}
	return user
}

func validateInput(input *models.InputLog) error {
	if input == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidInput)
	}
	v := validate.Struct(input)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors.One())
	}
	for i := range input.Items {
		iv := validate.Struct(&input.Items[i])
		if !iv.Validate() {
			return fmt.Errorf("%w: item %d: %s", ErrInvalidInput, i, iv.Errors.One())
		}
	}
	return nil
}

// AddLog stamps the entry with the corrected date. It blocks until the
// calendar is reconciled or ctx expires.
func (s *LogService) AddLog(ctx context.Context, user string, input *models.InputLog) (*models.LogEntry, error) {
	if err := s.calendar.WaitReady(ctx); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	cal := s.calendar.Current()
	entry := &models.LogEntry{
		ID:            s.newID(),
		DateKey:       cal.TodayKey().String(),
		Name:          input.Name,
		MealType:      models.MealType(input.MealType),
		IsEaten:       input.IsEaten,
		TimeEaten:     input.TimeEaten,
		TotalCalories: input.TotalCalories,
		TotalProtein:  input.TotalProtein,
		TotalCarbs:    input.TotalCarbs,
		TotalFats:     input.TotalFats,
		Items:         input.Items,
		CreatedAt:     cal.Now(),
	}
	if entry.TotalCalories == 0 && entry.TotalProtein == 0 && entry.TotalCarbs == 0 && entry.TotalFats == 0 {
		for _, it := range entry.Items {
			entry.TotalCalories += it.Calories
			entry.TotalProtein += it.Protein
			entry.TotalCarbs += it.Carbs
			entry.TotalFats += it.Fats
		}
	}

	user = userOrDefault(user)
	s.store.Add(user, entry)
	s.metrics.SetLogsTotal(s.store.Len())
	s.logger.Debugf(providers.TypeApp, "Log %s added for %s on %s", entry.ID, user, entry.DateKey)
	return entry.Clone(), nil
}

func (s *LogService) ToggleEaten(user, id string) (*models.LogEntry, error) {
	e, ok := s.store.Update(userOrDefault(user), id, func(e *models.LogEntry) {
		e.IsEaten = !e.IsEaten
	})
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *LogService) DeleteLog(user, id string) error {
	if !s.store.Delete(userOrDefault(user), id) {
		return ErrNotFound
	}
	s.metrics.SetLogsTotal(s.store.Len())
	return nil
}

func (s *LogService) GetLogs(user string) []*models.LogEntry {
	return s.store.List(userOrDefault(user))
}

func (s *LogService) GetToday(user string) []*models.LogEntry {
	today := s.TodayKey()
	all := s.store.List(userOrDefault(user))
	out := make([]*models.LogEntry, 0, len(all))
	for _, e := range all {
		if e.DateKey == today {
			out = append(out, e)
		}
	}
	return out
}

func (s *LogService) Revision(user string) uint64 {
	return s.store.Revision(userOrDefault(user))
}

// TodayKey is the corrected DateKey of the current calendar.
func (s *LogService) TodayKey() string {
	return s.calendar.Current().TodayKey().String()
}

func (s *LogService) Users() []string {
	return s.store.Users()
}

func (s *LogService) LogsCount() int {
	return s.store.Len()
}

func (s *LogService) GetSnapshot() *models.Storage {
	return &models.Storage{
		Version: models.StorageVersion,
		Users:   s.store.GetData(),
	}
}

func (s *LogService) PutUserData(user string, entries []*models.LogEntry) {
	s.store.PutData(userOrDefault(user), entries)
	s.metrics.SetLogsTotal(s.store.Len())
}
