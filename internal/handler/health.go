package handler

import (
	"net/http"
	"time"
)

// HandleHealth is the liveness probe. It confirms the process is serving
// requests; it deliberately does not touch the database, so a wedged
// database shows up in request errors rather than flapping the probe.
//
// HTTP: GET /api/health (public)
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
