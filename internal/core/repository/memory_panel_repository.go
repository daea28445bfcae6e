package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Yudzxml/PANELSV2/internal/core/model"
)

type inMemoryPanelRepository struct {
	panels map[string]map[int64]*model.Panel // email -> serverID -> panel
	mutex  sync.RWMutex
}

func NewInMemoryPanelRepository() PanelRepository {
	return &inMemoryPanelRepository{
		panels: make(map[string]map[int64]*model.Panel),
	}
}

func (r *inMemoryPanelRepository) Create(_ context.Context, email string, panel *model.Panel) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.panels[email] == nil {
		r.panels[email] = make(map[int64]*model.Panel)
	}
	stored := *panel
	stored.CreatedAt = time.Now()
	r.panels[email][panel.ServerID] = &stored
	return nil
}

func (r *inMemoryPanelRepository) Delete(_ context.Context, email string, serverID int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if owned, exists := r.panels[email]; exists {
		delete(owned, serverID)
	}
	return nil
}

func (r *inMemoryPanelRepository) FindByServerID(_ context.Context, email string, serverID int64) (*model.Panel, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if panel, exists := r.panels[email][serverID]; exists {
		found := *panel
		return &found, nil
	}
	return nil, nil
}

func (r *inMemoryPanelRepository) FindByUsername(_ context.Context, email, username string) (*model.Panel, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, panel := range r.panels[email] {
		if panel.Username == username {
			found := *panel
			return &found, nil
		}
	}
	return nil, nil
}

func (r *inMemoryPanelRepository) FindByUser(_ context.Context, email string) ([]*model.Panel, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var panels []*model.Panel
	for _, panel := range r.panels[email] {
		found := *panel
		panels = append(panels, &found)
	}
	return panels, nil
}

func (r *inMemoryPanelRepository) DeleteAll(_ context.Context, _ int) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var deleted int64
	for email, owned := range r.panels {
		deleted += int64(len(owned))
		delete(r.panels, email)
	}
	return deleted, nil
}
