package service

import (
	"time"

	"github.com/dom/task-tracker/internal/repository"
	"github.com/dom/task-tracker/internal/security"
	"github.com/google/uuid"
)

// TokenIssuer signs and verifies the two token classes.
type TokenIssuer interface {
	IssuePair(userID uuid.UUID) (security.TokenPair, error)
	VerifyAccess(token string) (uuid.UUID, error)
	VerifyRefresh(token string) (uuid.UUID, error)
	RefreshTTL() time.Duration
}

// PasswordHasher is a one-way, salted password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Services struct {
	Auth *AuthService
	User *UserService
	Task *TaskService
}

func NewServices(repos *repository.Repositories, tokens TokenIssuer, hasher PasswordHasher) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, tokens, hasher),
		User: NewUserService(repos.User),
		Task: NewTaskService(repos.Task, repos.User),
	}
}
