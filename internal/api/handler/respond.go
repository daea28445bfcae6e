package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yudzxml/PANELSV2/internal/core/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service-layer error onto the response taxonomy:
// 400 invalid input, 402 insufficient balance, 403 expired/denied, 404 not
// found, 409 conflict, 500 everything else.
func writeServiceError(w http.ResponseWriter, err error) {
	var balanceErr *service.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":    balanceErr.Error(),
			"required": balanceErr.Required,
			"current":  balanceErr.Current,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAccountExpired), errors.Is(err, service.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrPanelNotFound), errors.Is(err, service.ErrNoUsers):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
