package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Yudzxml/PANELSV2/internal/core/model"
	"github.com/Yudzxml/PANELSV2/internal/core/repository"
)

// Action tags returned by AddOrUpdateUser.
const (
	UserAdded     = "added"
	UserUpdated   = "updated"
	UserUnchanged = "unchanged"
)

// AddUserParams carries the fields of a user_add request. Zero values mean
// the field was not supplied; Money is a pointer so an explicit zero can be
// told apart from absence.
type AddUserParams struct {
	Email      string
	Password   string
	ActiveDays int
	Role       model.Role
	Money      *int64
}

// UserProfile is a user plus the panels they own.
type UserProfile struct {
	model.User
	Panels []*model.Panel `json:"panels"`
}

type UserService interface {
	AddOrUpdateUser(ctx context.Context, params AddUserParams) (*model.User, string, error)
	GetUser(ctx context.Context, email string) (*UserProfile, error)
	DeleteUser(ctx context.Context, email string) error
	ListAllEmails(ctx context.Context, requesterEmail string) ([]string, error)
	UpdateRole(ctx context.Context, email string, role model.Role) (*model.User, error)
	CheckAdmin(ctx context.Context, email string) error
}

type userService struct {
	userRepo  repository.UserRepository
	panelRepo repository.PanelRepository
}

func NewUserService(userRepo repository.UserRepository, panelRepo repository.PanelRepository) UserService {
	return &userService{
		userRepo:  userRepo,
		panelRepo: panelRepo,
	}
}

func (s *userService) AddOrUpdateUser(ctx context.Context, params AddUserParams) (*model.User, string, error) {
	if params.Email == "" {
		return nil, "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if params.Role != "" && !model.ValidRole(params.Role) {
		return nil, "", fmt.Errorf("%w: role must be %q or %q", ErrInvalidInput, model.RoleUser, model.RoleAdmin)
	}

	existing, err := s.userRepo.FindByEmail(ctx, params.Email)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()

	if existing == nil {
		if params.Password == "" {
			return nil, "", fmt.Errorf("%w: password is required for a new user", ErrInvalidInput)
		}
		if params.ActiveDays <= 0 {
			return nil, "", fmt.Errorf("%w: activeDays must be positive for a new user", ErrInvalidInput)
		}

		var money int64
		if params.Money != nil {
			money = *params.Money
		}
		expireAt := now.Add(time.Duration(params.ActiveDays) * 24 * time.Hour)

		user := model.NewUser(params.Email, params.Password, params.Role, money, expireAt)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, "", err
		}
		return user, UserAdded, nil
	}

	var upd repository.UserUpdate
	if params.Password != "" {
		upd.Password = &params.Password
	}
	if params.Role != "" {
		upd.Role = &params.Role
	}
	if params.Money != nil {
		upd.Money = params.Money
	}
	if params.ActiveDays > 0 {
		// Extend from whichever is later, the current expiry or now. An
		// already-expired account restarts from now; a live one keeps its
		// remaining time.
		base := existing.ExpireAt
		if base.Before(now) {
			base = now
		}
		expireAt := base.Add(time.Duration(params.ActiveDays) * 24 * time.Hour)
		upd.ExpireAt = &expireAt
	}

	if upd.Empty() {
		return existing, UserUnchanged, nil
	}

	if err := s.userRepo.ApplyUpdate(ctx, params.Email, upd); err != nil {
		return nil, "", err
	}

	updated, err := s.userRepo.FindByEmail(ctx, params.Email)
	if err != nil {
		return nil, "", err
	}
	if updated == nil {
		return nil, "", ErrUserNotFound
	}
	return updated, UserUpdated, nil
}

func (s *userService) GetUser(ctx context.Context, email string) (*UserProfile, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	panels, err := s.panelRepo.FindByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if panels == nil {
		panels = []*model.Panel{}
	}

	return &UserProfile{User: *user, Panels: panels}, nil
}

func (s *userService) DeleteUser(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	// Panels are left in place: they are only bulk-removed through the
	// admin-only delete-all flow.
	return s.userRepo.Delete(ctx, email)
}

func (s *userService) ListAllEmails(ctx context.Context, requesterEmail string) ([]string, error) {
	if err := s.CheckAdmin(ctx, requesterEmail); err != nil {
		return nil, err
	}
	return s.userRepo.ListEmails(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, email string, role model.Role) (*model.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrInvalidInput, model.RoleUser, model.RoleAdmin)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	upd := repository.UserUpdate{Role: &role}
	if err := s.userRepo.ApplyUpdate(ctx, email, upd); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *userService) CheckAdmin(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}
