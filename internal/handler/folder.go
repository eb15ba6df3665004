package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"drivebox/internal/domain/models"
	"drivebox/internal/domain/services"
	"drivebox/internal/httputil"
)

// FolderHandler handles folder HTTP requests.
// Handlers only communicate with services, never repositories.
type FolderHandler struct {
	folders services.FolderService
	shares  services.ShareService
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders services.FolderService, shares services.ShareService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folders: folders,
		shares:  shares,
		logger:  logger,
	}
}

// CreateFolder creates a new folder owned by the caller
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a single folder
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	folder, err := h.folders.GetFolder(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// RenameFolder renames a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.RenameFolder(r.Context(), r.PathValue("id"), userID, req.Name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder removes a folder and its whole subtree, blobs included
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	if err := h.folders.DeleteFolder(r.Context(), r.PathValue("id"), userID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CloneFolder deep-copies a folder subtree
// POST /api/folders/{id}/clone
func (h *FolderHandler) CloneFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req struct {
		DestParentID *string `json:"dest_parent_id,omitempty"`
	}
	// An empty body means "clone next to the source".
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	clone, err := h.folders.CloneFolder(r.Context(), r.PathValue("id"), userID, req.DestParentID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, clone)
}

// shareRequest is the wire form for grant and revoke calls.
type shareRequest struct {
	UserID int64  `json:"user_id"`
	Level  string `json:"level"`
}

func parseShareRequest(w http.ResponseWriter, r *http.Request) (int64, models.AccessLevel, bool) {
	var req shareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return 0, 0, false
	}
	if req.UserID <= 0 {
		httputil.RespondError(w, http.StatusBadRequest, "user_id is required")
		return 0, 0, false
	}
	level, ok := models.ParseAccessLevel(strings.TrimSpace(req.Level))
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "level must be \"view\" or \"edit\"")
		return 0, 0, false
	}
	return req.UserID, level, true
}

// GrantAccess shares a folder subtree with a user
// POST /api/folders/{id}/grants
func (h *FolderHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	target, level, ok := parseShareRequest(w, r)
	if !ok {
		return
	}

	if err := h.shares.Grant(r.Context(), r.PathValue("id"), actor, target, level); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevokeAccess removes a user's access from a folder subtree
// DELETE /api/folders/{id}/grants
func (h *FolderHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	target, level, ok := parseShareRequest(w, r)
	if !ok {
		return
	}

	if err := h.shares.Revoke(r.Context(), r.PathValue("id"), actor, target, level); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
