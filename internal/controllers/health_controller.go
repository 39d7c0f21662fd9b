package controllers

import (
	"calsurf/internal/services"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// ReadinessChecker reports whether the clock has been reconciled.
type ReadinessChecker interface {
	Ready() bool
}

type HealthController struct {
	service   services.LogServiceInterface
	clock     ReadinessChecker
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	ClockReady    bool    `json:"clock_ready"`
	Users         int     `json:"users"`
	Logs          int     `json:"logs"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		ClockReady:    hc.clock.Ready(),
		Users:         len(hc.service.Users()),
		Logs:          hc.service.LogsCount(),
	}
	if !resp.ClockReady {
		resp.Status = "starting"
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.LogServiceInterface, clock ReadinessChecker) *HealthController {
	return &HealthController{
		service:   service,
		clock:     clock,
		startTime: time.Now(),
	}
}
