package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clinic-admin/internal/model"
)

// Credential is a seed account before hashing.
type Credential struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// DemoCredentials are the accounts the dashboard's sign-in page advertises.
var DemoCredentials = []Credential{
	{Name: "Clinic Admin", Email: "admin@clinic.com", Password: "password", Role: "admin"},
	{Name: "Test Receptionist", Email: "test@gmail.com", Password: "123456", Role: "receptionist"},
}

// UserRepository is a read-only account directory built at startup.
type UserRepository struct {
	byEmail map[string]model.Account
	byID    map[string]model.Account
}

// NewUserRepository hashes the seed passwords with the given bcrypt cost;
// pass bcrypt.MinCost in tests.
func NewUserRepository(seed []Credential, cost int) (*UserRepository, error) {
	r := &UserRepository{
		byEmail: make(map[string]model.Account, len(seed)),
		byID:    make(map[string]model.Account, len(seed)),
	}

	now := time.Now().UTC()
	for _, c := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", c.Email, err)
		}

		account := model.Account{
			ID:           uuid.NewString(),
			Name:         c.Name,
			Email:        strings.ToLower(c.Email),
			PasswordHash: string(hash),
			Role:         c.Role,
			CreatedAt:    now,
		}
		r.byEmail[account.Email] = account
		r.byID[account.ID] = account
	}

	return r, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (model.Account, error) {
	account, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.Account{}, model.ErrUserNotFound
	}
	return account, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (model.Account, error) {
	account, ok := r.byID[id]
	if !ok {
		return model.Account{}, model.ErrUserNotFound
	}
	return account, nil
}
