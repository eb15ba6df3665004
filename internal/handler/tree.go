package handler

import (
	"log/slog"
	"net/http"

	"drivebox/internal/domain/services"
	"drivebox/internal/httputil"
)

// TreeHandler handles tree query and search HTTP requests
type TreeHandler struct {
	trees  services.TreeService
	logger *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(trees services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		trees:  trees,
		logger: logger,
	}
}

// GetTree loads a folder with its direct children and resolved files
// GET /api/folders/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	tree, err := h.trees.GetTree(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// Search does a substring name search over the caller's own namespace
// GET /api/search?q=substring
func (h *TreeHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	result, err := h.trees.SearchByName(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// HealthCheck reports service liveness
// GET /health
func (h *TreeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
