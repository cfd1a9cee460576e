package mysql

import (
	"context"
	"errors"
	"log"
	"time"

	"caseshop/internal/domain"
	"caseshop/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) FindOrCreate(ctx context.Context, order *domain.Order) (*domain.Order, bool, error) {
	existing, err := r.findByOwner(ctx, order.UserID, order.ConfigurationID)
	if err != nil || existing != nil {
		return existing, false, err
	}

	err = r.db.WithContext(ctx).Create(order).Error
	if err == nil {
		log.Printf("Order %s created for configuration %s", order.ID, order.ConfigurationID)
		return order, true, nil
	}

	// A concurrent checkout for the same pair won the insert.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, err := r.findByOwner(ctx, order.UserID, order.ConfigurationID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}
	log.Printf("Order create error: %v", err)
	return nil, false, err
}

func (r *orderRepo) findByOwner(ctx context.Context, userID, configurationID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND configuration_id = ?", userID, configurationID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Order findByOwner error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Order FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Configuration").
		Preload("ShippingAddress").
		Preload("BillingAddress").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Order FindForUser error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) MarkPaid(ctx context.Context, id string, shipping *domain.ShippingAddress, billing *domain.BillingAddress) (*domain.Order, error) {
	var out *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND is_paid = ?", id, false).
			Update("is_paid", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Create(shipping).Error; err != nil {
			return err
		}
		if err := tx.Create(billing).Error; err != nil {
			return err
		}

		err := tx.Model(&domain.Order{}).Where("id = ?", id).Updates(map[string]any{
			"shipping_address_id": shipping.ID,
			"billing_address_id":  billing.ID,
		}).Error
		if err != nil {
			return err
		}

		var o domain.Order
		if err := tx.Preload("ShippingAddress").Preload("BillingAddress").First(&o, "id = ?", id).Error; err != nil {
			return err
		}
		out = &o
		return nil
	})
	if err != nil {
		log.Printf("Order MarkPaid error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateAmount(ctx context.Context, id string, amount int64) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND is_paid = ?", id, false).
		Update("amount", amount).Error
	if err != nil {
		log.Printf("Order UpdateAmount error: %v", err)
	}
	return err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status).Error
	if err != nil {
		log.Printf("Order UpdateStatus error: %v", err)
	}
	return err
}

func (r *orderRepo) ListPaidSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ShippingAddress").
		Where("is_paid = ? AND created_at >= ?", true, since).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("Order ListPaidSince error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) SumPaidSince(ctx context.Context, since time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("is_paid = ? AND created_at >= ?", true, since).
		Scan(&sum).Error
	if err != nil {
		log.Printf("Order SumPaidSince error: %v", err)
		return 0, err
	}
	return sum, nil
}
