package services

import (
	"context"

	"caseshop/internal/auth"
	"caseshop/internal/domain"
	"caseshop/internal/repository"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(r repository.UserRepository) *UserService {
	return &UserService{repo: r}
}

// EnsureUser mirrors the identity-provider account into the users table.
func (s *UserService) EnsureUser(ctx context.Context, sess auth.Session) error {
	if !sess.Complete() {
		return domain.ErrNotLoggedIn
	}
	return s.repo.CreateIfAbsent(ctx, &domain.User{ID: sess.UserID, Email: sess.Email})
}
