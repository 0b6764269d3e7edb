package handler

import "net/http"

// version is reported by the health endpoint.
const version = "1.0.0"

// Healthcheck godoc
// @Summary Report service health
// @Tags health
// @Produce json
// @Success 200
// @Router /api/health [get]
func (h *Handler) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	health := envelope{
		"success": true,
		"status":  "available",
		"system_info": map[string]string{
			"environment": h.config.Server.Env,
			"version":     version,
		},
	}
	err := h.encodeJSON(w, http.StatusOK, health, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
