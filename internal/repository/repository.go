package repository

import (
	"context"
	"time"

	"caseshop/internal/domain"
)

// Find methods return (nil, nil) when no row matches.

type ConfigurationRepository interface {
	Create(ctx context.Context, c *domain.Configuration) error
	FindByID(ctx context.Context, id string) (*domain.Configuration, error)
	UpdateCroppedImage(ctx context.Context, id, url string) (*domain.Configuration, error)
	UpdateOptions(ctx context.Context, id string, o domain.Options) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// CreateIfAbsent inserts u unless a user with the same id exists.
	CreateIfAbsent(ctx context.Context, u *domain.User) error
}

type OrderRepository interface {
	// FindOrCreate returns the order for (order.UserID, order.ConfigurationID),
	// inserting order when there is none. created reports which happened.
	FindOrCreate(ctx context.Context, order *domain.Order) (out *domain.Order, created bool, err error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// FindForUser loads an order with its relations, scoped to its owner.
	FindForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	// MarkPaid flips is_paid and attaches both addresses in one transaction.
	// It returns (nil, nil) when the order is missing or already paid.
	MarkPaid(ctx context.Context, id string, shipping *domain.ShippingAddress, billing *domain.BillingAddress) (*domain.Order, error)
	// UpdateAmount reprices an order that has not been paid yet.
	UpdateAmount(ctx context.Context, id string, amount int64) error
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	ListPaidSince(ctx context.Context, since time.Time) ([]domain.Order, error)
	SumPaidSince(ctx context.Context, since time.Time) (int64, error)
}
