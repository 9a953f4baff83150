package handlers

import (
	"net/http"

	"tailor-backend/internal/services"
	"tailor-backend/pkg/utils"
)

type StatsHandler struct {
	Service *services.StatsService
}

func NewStatsHandler(s *services.StatsService) *StatsHandler {
	return &StatsHandler{Service: s}
}

func (h *StatsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Revenue(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
