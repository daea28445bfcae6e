package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Yudzxml/PANELSV2/internal/core/model"
	"github.com/Yudzxml/PANELSV2/internal/core/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type addUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	ActiveDays *int   `json:"activeDays"`
	Role       string `json:"role"`
	Money      *int64 `json:"money"`
}

func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.ActiveDays != nil && *req.ActiveDays <= 0 {
		writeError(w, http.StatusBadRequest, "activeDays must be a positive number")
		return
	}
	if req.Money != nil && *req.Money < 0 {
		writeError(w, http.StatusBadRequest, "money must be zero or a positive number")
		return
	}

	params := service.AddUserParams{
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
		Money:    req.Money,
	}
	if req.ActiveDays != nil {
		params.ActiveDays = *req.ActiveDays
	}

	user, action, err := h.userService.AddOrUpdateUser(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user " + action,
		"user":    user,
	})
}

type deleteUserRequest struct {
	Email string `json:"email"`
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user deleted",
		"user":    map[string]string{"email": req.Email},
	})
}

func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	profile, err := h.userService.GetUser(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}

func (h *UserHandler) InfoAll(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	emails, err := h.userService.ListAllEmails(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(emails) == 0 {
		writeServiceError(w, service.ErrNoUsers)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"emails": emails})
}

type updateRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "email and role are required")
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), req.Email, model.Role(req.Role))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user role updated",
		"user":    map[string]interface{}{"email": user.Email, "role": user.Role},
	})
}
