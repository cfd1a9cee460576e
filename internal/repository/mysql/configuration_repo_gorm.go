package mysql

import (
	"context"
	"errors"
	"log"

	"caseshop/internal/domain"
	"caseshop/internal/repository"

	"gorm.io/gorm"
)

type configurationRepo struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) repository.ConfigurationRepository {
	return &configurationRepo{db: db}
}

func (r *configurationRepo) Create(ctx context.Context, c *domain.Configuration) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		log.Printf("Configuration create error: %v", err)
		return err
	}
	return nil
}

func (r *configurationRepo) FindByID(ctx context.Context, id string) (*domain.Configuration, error) {
	var c domain.Configuration
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Configuration FindByID error: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *configurationRepo) UpdateCroppedImage(ctx context.Context, id, url string) (*domain.Configuration, error) {
	res := r.db.WithContext(ctx).Model(&domain.Configuration{}).Where("id = ?", id).Update("cropped_image_url", url)
	if res.Error != nil {
		log.Printf("Configuration UpdateCroppedImage error: %v", res.Error)
		return nil, res.Error
	}
	return r.FindByID(ctx, id)
}

func (r *configurationRepo) UpdateOptions(ctx context.Context, id string, o domain.Options) error {
	res := r.db.WithContext(ctx).Model(&domain.Configuration{}).Where("id = ?", id).Updates(map[string]any{
		"color":    o.Color,
		"model":    o.Model,
		"material": o.Material,
		"finish":   o.Finish,
	})
	if res.Error != nil {
		log.Printf("Configuration UpdateOptions error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero rows when the values did not change.
		c, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrConfigurationNotFound
		}
	}
	return nil
}
