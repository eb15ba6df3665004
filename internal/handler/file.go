package handler

import (
	"log/slog"
	"net/http"

	"drivebox/internal/config"
	"drivebox/internal/domain/services"
	"drivebox/internal/httputil"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	files  services.FileService
	logger *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(files services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger,
	}
}

// UploadFile stores a file inside a folder. Multipart upload with a single
// "file" part; the part's filename becomes the file name.
// POST /api/folders/{id}/files
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing \"file\" part")
		return
	}
	defer part.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file, err := h.files.UploadFile(r.Context(), userID, &services.UploadFileRequest{
		FolderID: r.PathValue("id"),
		Name:     header.Filename,
		MimeType: mimeType,
		Size:     header.Size,
		Content:  part,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// GetFile returns file metadata plus a presigned download URL
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	view, err := h.files.GetFile(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}

// RenameFile renames a file. The blob keeps its storage key.
// PATCH /api/files/{id}
func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
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

	file, err := h.files.RenameFile(r.Context(), r.PathValue("id"), userID, req.Name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile removes a file record and its blob. Owner only.
// DELETE /api/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	if err := h.files.DeleteFile(r.Context(), r.PathValue("id"), userID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GrantAccess shares a single file with a user
// POST /api/files/{id}/grants
func (h *FileHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	target, level, ok := parseShareRequest(w, r)
	if !ok {
		return
	}

	if err := h.files.Grant(r.Context(), r.PathValue("id"), actor, target, level); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevokeAccess removes a user's access from a single file
// DELETE /api/files/{id}/grants
func (h *FileHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	target, level, ok := parseShareRequest(w, r)
	if !ok {
		return
	}

	if err := h.files.Revoke(r.Context(), r.PathValue("id"), actor, target, level); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
