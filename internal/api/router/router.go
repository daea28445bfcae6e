package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Yudzxml/PANELSV2/internal/api/handler"
	"github.com/Yudzxml/PANELSV2/internal/api/middleware"
	"github.com/Yudzxml/PANELSV2/internal/core/service"
)

// Action identifies one of the dispatchable operations. Every inbound
// request names exactly one action, either in its JSON body or in the query
// string.
type Action string

const (
	ActionUserAdd        Action = "user_add"
	ActionUserDelete     Action = "user_delete"
	ActionUserInfo       Action = "user_info"
	ActionUserInfoAll    Action = "user_info_all"
	ActionUserRole       Action = "user_role"
	ActionPanelHealth    Action = "panel_health"
	ActionPanelCreate    Action = "panel_create"
	ActionPanelDelete    Action = "panel_delete"
	ActionPanelDeleteAll Action = "panel_delete_all"
	ActionPanelCurrent   Action = "panel_current"
)

type route struct {
	method string
	handle http.HandlerFunc
}

const maxBodySize = 1 << 20

func NewRouter(
	userService service.UserService,
	panelService service.PanelService,
) http.Handler {
	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	panelHandler := handler.NewPanelHandler(panelService)

	routes := map[Action]route{
		ActionUserAdd:        {http.MethodPost, userHandler.Add},
		ActionUserDelete:     {http.MethodDelete, userHandler.Delete},
		ActionUserInfo:       {http.MethodGet, userHandler.Info},
		ActionUserInfoAll:    {http.MethodGet, userHandler.InfoAll},
		ActionUserRole:       {http.MethodPost, userHandler.UpdateRole},
		ActionPanelHealth:    {http.MethodGet, panelHandler.Health},
		ActionPanelCreate:    {http.MethodPost, panelHandler.Create},
		ActionPanelDelete:    {http.MethodDelete, panelHandler.Delete},
		ActionPanelDeleteAll: {http.MethodDelete, panelHandler.DeleteAll},
		ActionPanelCurrent:   {http.MethodGet, panelHandler.Current},
	}

	dispatch := func(w http.ResponseWriter, r *http.Request) {
		action := extractAction(r)
		if action == "" {
			writeError(w, http.StatusBadRequest, "action is required")
			return
		}

		rt, known := routes[Action(action)]
		if !known {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown action %q", action))
			return
		}
		if r.Method != rt.method {
			writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s required", rt.method))
			return
		}

		rt.handle(w, r)
	}

	// Add middleware chain
	withMiddleware := func(h http.Handler) http.Handler {
		return middleware.CORSMiddleware(
			middleware.LoggingMiddleware(
				middleware.RecoverMiddleware(h),
			),
		)
	}

	// Create router
	mux := http.NewServeMux()

	// Liveness endpoint, distinct from the panel_health action which probes
	// the upstream provisioning backend
	mux.Handle("/health", withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	})))

	mux.Handle("/api/panels", withMiddleware(http.HandlerFunc(dispatch)))

	return mux
}

// extractAction finds the action in the request body first, then the query
// string, and leaves the body readable for the action's own handler.
func extractAction(r *http.Request) string {
	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err == nil {
			r.Body = io.NopCloser(bytes.NewReader(body))

			var probe struct {
				Action string `json:"action"`
			}
			if json.Unmarshal(body, &probe) == nil && probe.Action != "" {
				return probe.Action
			}
		}
	}
	return r.URL.Query().Get("action")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
