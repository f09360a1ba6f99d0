package httpx

import (
	"net/http"
	"time"
)

// healthHandler reports service liveness.
// GET /health.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "Social Login API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
