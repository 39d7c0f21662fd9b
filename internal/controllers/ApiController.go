package controllers

import (
	"calsurf/internal/models"
	"calsurf/internal/providers"
	"calsurf/internal/services"
	"calsurf/internal/structures"
	"calsurf/internal/truetime"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger    providers.Logger
	service   services.LogServiceInterface
	cache     providers.CacheProviderInterface
	readyWait time.Duration
}

func NewApiController(logger providers.Logger, service services.LogServiceInterface, cache providers.CacheProviderInterface, conf *structures.Config) *ApiController {
	return &ApiController{
		logger:    logger,
		service:   service,
		cache:     cache,
		readyWait: readyWait(conf),
	}
}

// readyWait bounds how long a write waits for reconciliation: every source
// timing out, plus a second of slack.
func readyWait(conf *structures.Config) time.Duration {
	timeout := conf.TrueTime.Timeout
	if timeout <= 0 {
		timeout = truetime.DefaultTimeout
	}
	n := len(conf.TrueTime.Sources)
	if n == 0 {
		n = 1
	}
	return time.Duration(n)*timeout + time.Second
}

func getUser(r *http.Request) string {
	u := r.URL.Query().Get("u")
	if u == "" {
		return services.DefaultUser
	}
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps service errors onto HTTP statuses.
func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, truetime.ErrNotReady):
		w.Header().Set("Retry-After", "1")
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	default:
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// cacheKey changes whenever the user's logs change or the day rolls over.
func (ac *ApiController) cacheKey(prefix, user string) string {
	return prefix + ":" + user + ":" + strconv.FormatUint(ac.service.Revision(user), 10) + ":" + ac.service.TodayKey()
}

func (ac *ApiController) AddLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.InputLog
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ac.readyWait)
	defer cancel()

	entry, err := ac.service.AddLog(ctx, getUser(r), &payload)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (ac *ApiController) GetLogs(w http.ResponseWriter, r *http.Request) {
	user := getUser(r)
	if r.URL.Query().Get("today") == "1" {
		writeJSON(w, http.StatusOK, ac.service.GetToday(user))
		return
	}
	writeJSON(w, http.StatusOK, ac.service.GetLogs(user))
}

func (ac *ApiController) ToggleEaten(w http.ResponseWriter, r *http.Request) {
	entry, err := ac.service.ToggleEaten(getUser(r), r.URL.Query().Get("id"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (ac *ApiController) DeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.DeleteLog(getUser(r), r.URL.Query().Get("id")); err != nil {
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory lists days newest first. An optional days=N keeps the N most
// recent days.
func (ac *ApiController) GetHistory(w http.ResponseWriter, r *http.Request) {
	user := getUser(r)
	limit := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		limit = n
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("history:"+strconv.Itoa(limit), user), func() (any, error) {
		days := ac.service.GetHistory(user)
		if limit > 0 && len(days) > limit {
			days = days[:limit]
		}
		return days, nil
	})
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	user := getUser(r)
	view := models.StatsView(r.URL.Query().Get("view"))
	if view == "" {
		view = models.ViewDay
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("stats:"+string(view), user), func() (any, error) {
		return ac.service.GetStats(user, view)
	})
}
