package http

import "net/http"

// Ping handles GET /ping.
func Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "I'm up!",
	})
}
