package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-hub/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(s services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: s}
}

func (h *StatsHandler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.PlatformStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
