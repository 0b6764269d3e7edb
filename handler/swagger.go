package handler

import (
	"net/http"

	"github.com/emzola/bookreviews/docs"
)

// handleSwaggerFile serves the OpenAPI document the API docs UI reads.
func (h *Handler) handleSwaggerFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(docs.SwaggerInfo.ReadDoc()))
	}
}
