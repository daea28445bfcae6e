package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Yudzxml/PANELSV2/internal/core/model"
	"github.com/Yudzxml/PANELSV2/internal/core/service"
)

type PanelHandler struct {
	panelService service.PanelService
}

func NewPanelHandler(panelService service.PanelService) *PanelHandler {
	return &PanelHandler{
		panelService: panelService,
	}
}

type createPanelRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Ram      int    `json:"ram"`
}

func (h *PanelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" || req.Ram <= 0 {
		writeError(w, http.StatusBadRequest, "email, username, password and ram are required")
		return
	}

	panel, err := h.panelService.CreatePanel(r.Context(), req.Email, req.Username, req.Password, req.Ram)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "panel created",
		"panel":   panel,
	})
}

// deletePanelRequest accepts userId/serverId as JSON numbers or numeric
// strings; clients send both forms.
type deletePanelRequest struct {
	Email    string      `json:"email"`
	UserID   interface{} `json:"userId"`
	ServerID interface{} `json:"serverId"`
}

func (h *PanelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deletePanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.UserID == nil || req.ServerID == nil {
		writeError(w, http.StatusBadRequest, "email, userId and serverId are required")
		return
	}

	userID, ok1 := coerceID(req.UserID)
	serverID, ok2 := coerceID(req.ServerID)
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "userId and serverId must be numeric")
		return
	}

	if err := h.panelService.DeletePanel(r.Context(), req.Email, userID, serverID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "panel deleted"})
}

type deleteAllPanelsRequest struct {
	Email string `json:"email"`
}

func (h *PanelHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	var req deleteAllPanelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	deleted, err := h.panelService.DeleteAllPanels(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      fmt.Sprintf("all panels deleted by admin %s", req.Email),
		"deletedCount": deleted,
	})
}

func (h *PanelHandler) Current(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	panels, err := h.panelService.ListCurrentPanels(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if panels == nil {
		panels = []*model.Panel{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"panels": panels})
}

func (h *PanelHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.panelService.Health(r.Context())
	writeJSON(w, http.StatusOK, status)
}

func coerceID(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
