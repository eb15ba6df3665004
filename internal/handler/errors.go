package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"drivebox/internal/domain"
	"drivebox/internal/httputil"
)

// handleError maps a domain error onto an HTTP response. Every failure kind
// keeps a distinct, stable status so clients can tell "try again" from "not
// allowed" from "doesn't exist".
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode() >= 500 {
			logger.Error("request failed", "error", err)
		}
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// actorID pulls the verified user id out of the request context.
func actorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := httputil.GetUserID(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "missing actor identity")
		return 0, false
	}
	return id, true
}
