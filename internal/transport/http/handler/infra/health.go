// Package infra serves service status endpoints.
package infra

import (
	"net/http"
	"runtime"
	"time"

	"github.com/mandalnilabja/goatplan/internal/config"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/shared"
)

// AppName is reported by the status endpoints.
const AppName = "goatplan"

// RootStatus returns JSON status information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.StartTime)
	shared.WriteJSON(w, map[string]any{
		"name":        AppName,
		"status":      "running",
		"go_version":  runtime.Version(),
		"uptime":      uptime.Round(time.Second).String(),
		"uptime_secs": int64(uptime.Seconds()),
		"data_dir":    config.DataDir(),
		"chats":       "/chats",
		"models":      "/models",
		"usage":       "/api/usage",
	}, http.StatusOK)
}

// HealthCheck returns the application health status. Storage failures
// report "degraded" with a 503.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "active"
	dbStatus := "connected"
	code := http.StatusOK

	chats, err := h.Storage.CountChats()
	if err != nil {
		status = "degraded"
		dbStatus = "error: " + err.Error()
		code = http.StatusServiceUnavailable
	}

	shared.WriteJSON(w, map[string]any{
		"status":    status,
		"app":       AppName,
		"storage":   dbStatus,
		"chats":     chats,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, code)
}
