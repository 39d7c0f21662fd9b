package controllers

import (
	"calsurf/internal/providers"
	"calsurf/internal/truetime"
	"context"
	"net/http"
)

// TimeKeeper is the view of *truetime.Keeper the time endpoints need.
type TimeKeeper interface {
	Status() truetime.Status
	Reconcile(ctx context.Context) truetime.Estimate
	Current() *truetime.Calendar
}

type TimeController struct {
	keeper TimeKeeper
	logger providers.Logger
}

type labelResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func NewTimeController(keeper TimeKeeper, logger providers.Logger) *TimeController {
	return &TimeController{keeper: keeper, logger: logger}
}

func (tc *TimeController) Now(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tc.keeper.Status())
}

func (tc *TimeController) Label(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !truetime.DateKey(key).Valid() {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, labelResponse{
		Key:   key,
		Label: tc.keeper.Current().Label(key),
	})
}

// Resync re-runs reconciliation and reports the new state.
func (tc *TimeController) Resync(w http.ResponseWriter, r *http.Request) {
	est := tc.keeper.Reconcile(r.Context())
	tc.logger.Infof(providers.TypeTime, "Forced resync: offset %s, trusted %t", est.Offset, est.Trusted)
	writeJSON(w, http.StatusOK, tc.keeper.Status())
}
