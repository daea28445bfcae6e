package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Yudzxml/PANELSV2/internal/cache"
	"github.com/Yudzxml/PANELSV2/internal/core/model"
	"github.com/Yudzxml/PANELSV2/internal/core/repository"
	"github.com/Yudzxml/PANELSV2/internal/provision"
)

// PanelCost is the balance deducted per panel for non-admin users.
const PanelCost int64 = 3000

const (
	healthCacheKey = "provision:health"
	healthCacheTTL = 30 * time.Second
)

type PanelService interface {
	CreatePanel(ctx context.Context, email, username, password string, ram int) (*model.Panel, error)
	DeletePanel(ctx context.Context, email string, userID, serverID int64) error
	DeleteAllPanels(ctx context.Context, adminEmail string) (int64, error)
	ListCurrentPanels(ctx context.Context, email string) ([]*model.Panel, error)
	Health(ctx context.Context) *provision.HealthStatus
}

type panelService struct {
	userRepo    repository.UserRepository
	panelRepo   repository.PanelRepository
	provisioner provision.Client
	cache       *cache.Cache
}

func NewPanelService(
	userRepo repository.UserRepository,
	panelRepo repository.PanelRepository,
	provisioner provision.Client,
	c *cache.Cache,
) PanelService {
	return &panelService{
		userRepo:    userRepo,
		panelRepo:   panelRepo,
		provisioner: provisioner,
		cache:       c,
	}
}

// CreatePanel deducts the panel cost before calling the provisioning API so
// two concurrent requests cannot both pass the balance check. Any later
// failure refunds the deduction; the refund is best-effort and its own
// failure is not escalated.
func (s *panelService) CreatePanel(ctx context.Context, email, username, password string, ram int) (*model.Panel, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Expired(time.Now()) {
		return nil, ErrAccountExpired
	}

	var deducted int64
	if !user.IsAdmin() {
		if user.Money < PanelCost {
			return nil, &InsufficientBalanceError{Required: PanelCost, Current: user.Money}
		}
		if err := s.userRepo.AdjustMoney(ctx, email, -PanelCost); err != nil {
			return nil, err
		}
		deducted = PanelCost
	}

	refund := func() {
		if deducted == 0 {
			return
		}
		if err := s.userRepo.AdjustMoney(ctx, email, deducted); err != nil {
			log.Printf("[panel] refund of %d for %s failed: %v", deducted, email, err)
		}
	}

	existing, err := s.panelRepo.FindByUsername(ctx, email, username)
	if err != nil {
		refund()
		return nil, err
	}
	if existing != nil {
		refund()
		return nil, ErrDuplicateUsername
	}

	record, err := s.provisioner.CreatePanel(ctx, ram, username, password)
	if err != nil {
		refund()
		return nil, &ProvisioningError{Op: "create", Err: err}
	}
	if record.ServerID == 0 {
		refund()
		return nil, &ProvisioningError{Op: "create", Err: fmt.Errorf("response missing serverId")}
	}

	panel := &model.Panel{
		ServerID: record.ServerID,
		UserID:   record.UserID,
		Username: record.Username,
		Extra:    record.Extra,
	}
	if err := s.panelRepo.Create(ctx, email, panel); err != nil {
		refund()
		return nil, err
	}
	return panel, nil
}

// DeletePanel verifies ownership locally before calling the external API,
// and removes the local document only after deprovisioning succeeds so a
// remote resource is never orphaned. A missing user, a missing panel and a
// userId mismatch all produce the same not-found outcome.
func (s *panelService) DeletePanel(ctx context.Context, email string, userID, serverID int64) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrPanelNotFound
	}

	panel, err := s.panelRepo.FindByServerID(ctx, email, serverID)
	if err != nil {
		return err
	}
	if panel == nil {
		return ErrPanelNotFound
	}
	if panel.UserID != userID {
		return ErrPanelNotFound
	}

	if err := s.provisioner.DeletePanel(ctx, userID, serverID); err != nil {
		return &ProvisioningError{Op: "delete", Err: err}
	}

	return s.panelRepo.Delete(ctx, email, serverID)
}

// DeleteAllPanels is admin-only and best-effort: deletion runs in batches
// and a mid-run failure returns the count removed by completed batches
// alongside the error.
func (s *panelService) DeleteAllPanels(ctx context.Context, adminEmail string) (int64, error) {
	if adminEmail == "" {
		return 0, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByEmail(ctx, adminEmail)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	if !user.IsAdmin() {
		return 0, ErrPermissionDenied
	}

	deleted, err := s.panelRepo.DeleteAll(ctx, repository.BulkDeleteBatchSize)
	if err != nil {
		log.Printf("[panel] bulk delete aborted after %d deletions: %v", deleted, err)
	}
	return deleted, err
}

func (s *panelService) ListCurrentPanels(ctx context.Context, email string) ([]*model.Panel, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	panels, err := s.panelRepo.FindByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if panels == nil {
		panels = []*model.Panel{}
	}
	return panels, nil
}

// Health probes the provisioning backend, degrading to inactive/maintenance
// on any failure rather than surfacing the error. A successful probe is
// cached briefly so a busy instance does not hammer the upstream.
func (s *panelService) Health(ctx context.Context) *provision.HealthStatus {
	var cached provision.HealthStatus
	if err := s.cache.Get(ctx, healthCacheKey, &cached); err == nil {
		return &cached
	}

	status, err := s.provisioner.Health(ctx)
	if err != nil {
		log.Printf("[panel] health probe failed: %v", err)
		return &provision.HealthStatus{Active: false, Maintenance: true}
	}

	if err := s.cache.Set(ctx, healthCacheKey, status, healthCacheTTL); err != nil {
		log.Printf("[panel] health cache write failed: %v", err)
	}
	return status
}
