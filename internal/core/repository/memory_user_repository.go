package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Yudzxml/PANELSV2/internal/core/model"
)

type inMemoryUserRepository struct {
	users map[string]*model.User
	mutex sync.RWMutex
}

func NewInMemoryUserRepository() UserRepository {
	return &inMemoryUserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *inMemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *user
	stored.CreatedAt = time.Now()
	r.users[user.Email] = &stored
	return nil
}

func (r *inMemoryUserRepository) ApplyUpdate(_ context.Context, email string, upd UserUpdate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, exists := r.users[email]
	if !exists {
		return nil
	}
	if upd.Password != nil {
		user.Password = *upd.Password
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Money != nil {
		user.Money = *upd.Money
	}
	if upd.ExpireAt != nil {
		user.ExpireAt = *upd.ExpireAt
	}
	return nil
}

func (r *inMemoryUserRepository) AdjustMoney(_ context.Context, email string, delta int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if user, exists := r.users[email]; exists {
		user.Money += delta
	}
	return nil
}

func (r *inMemoryUserRepository) Delete(_ context.Context, email string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.users, email)
	return nil
}

func (r *inMemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if user, exists := r.users[email]; exists {
		found := *user
		return &found, nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) ListEmails(_ context.Context) ([]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	emails := make([]string, 0, len(r.users))
	for email := range r.users {
		if email != "" {
			emails = append(emails, email)
		}
	}
	return emails, nil
}
