package services

import (
	"context"
	"log"
	"time"

	"caseshop/internal/auth"
	"caseshop/internal/domain"
	"caseshop/internal/infra/rabbitmq"
	"caseshop/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	WeeklyRevenueGoal  int64 = 500_00
	MonthlyRevenueGoal int64 = 2500_00
)

type OrderService struct {
	repo      repository.OrderRepository
	publisher rabbitmq.PublisherInterface
}

func NewOrderService(r repository.OrderRepository, publisher rabbitmq.PublisherInterface) *OrderService {
	return &OrderService{
		repo:      r,
		publisher: publisher,
	}
}

// GetPaymentStatus returns the caller's order once it is paid. A missing
// order and another user's order are indistinguishable.
func (s *OrderService) GetPaymentStatus(ctx context.Context, sess auth.Session, orderID string) (*domain.Order, error) {
	if !sess.Complete() {
		return nil, domain.ErrNotLoggedIn
	}

	order, err := s.repo.FindForUser(ctx, orderID, sess.UserID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.IsPaid {
		return nil, domain.ErrPaymentPending
	}
	return order, nil
}

func (s *OrderService) ChangeStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.IsPaid {
		return nil, domain.ErrOrderNotPaid
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	order.Status = next

	event := domain.OrderStatusChangedEvent{
		OrderID:   order.ID,
		Status:    next,
		ChangedAt: time.Now(),
	}
	go func() {
		if err := s.publisher.Publish(context.Background(), domain.EventOrderStatusChanged, event); err != nil {
			log.Printf("Failed to publish order status event: %v", err)
		}
	}()

	return order, nil
}

type Dashboard struct {
	Orders       []domain.Order `json:"orders"`
	LastWeekSum  int64          `json:"lastWeekSum"`
	LastMonthSum int64          `json:"lastMonthSum"`
	WeeklyGoal   int64          `json:"weeklyGoal"`
	MonthlyGoal  int64          `json:"monthlyGoal"`
}

// Dashboard lists paid orders of the last week and the revenue of the last
// week and month, relative to now.
func (s *OrderService) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	d := &Dashboard{
		WeeklyGoal:  WeeklyRevenueGoal,
		MonthlyGoal: MonthlyRevenueGoal,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := s.repo.ListPaidSince(gctx, weekAgo)
		d.Orders = orders
		return err
	})
	g.Go(func() error {
		sum, err := s.repo.SumPaidSince(gctx, weekAgo)
		d.LastWeekSum = sum
		return err
	})
	g.Go(func() error {
		sum, err := s.repo.SumPaidSince(gctx, monthAgo)
		d.LastMonthSum = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if d.Orders == nil {
		d.Orders = []domain.Order{}
	}
	return d, nil
}
