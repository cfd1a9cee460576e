package mysql

import (
	"context"
	"errors"
	"log"

	"caseshop/internal/domain"
	"caseshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("User FindByID error: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateIfAbsent(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(u).Error
	if err != nil {
		log.Printf("User create error: %v", err)
	}
	return err
}
