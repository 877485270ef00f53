package handler

import (
	"net/http"
)

// KeepAliveBody is the fixed response of the keep-alive endpoint.
const KeepAliveBody = "Bot is online ✅"

// KeepAliveHandler answers uptime pingers hitting the root path.
type KeepAliveHandler struct{}

// NewKeepAliveHandler creates a new keep-alive handler.
func NewKeepAliveHandler() *KeepAliveHandler {
	return &KeepAliveHandler{}
}

// ServeHTTP handles GET / and HEAD /. Any other path is 404.
func (h *KeepAliveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write([]byte(KeepAliveBody))
	}
}
