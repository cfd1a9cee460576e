package mocks

import (
	"context"
	"image"
	"time"

	"caseshop/internal/domain"
	"caseshop/internal/infra/mailer"
	"caseshop/internal/infra/payment"

	"github.com/stretchr/testify/mock"
)

type MockConfigurationRepository struct {
	mock.Mock
}

type MockOrderRepository struct {
	mock.Mock
}

type MockUserRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockGateway struct {
	mock.Mock
}

type MockMailer struct {
	mock.Mock
}

type MockImageClient struct {
	mock.Mock
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message any) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockConfigurationRepository) Create(ctx context.Context, c *domain.Configuration) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConfigurationRepository) FindByID(ctx context.Context, id string) (*domain.Configuration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Configuration), args.Error(1)
}

func (m *MockConfigurationRepository) UpdateCroppedImage(ctx context.Context, id, url string) (*domain.Configuration, error) {
	args := m.Called(ctx, id, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Configuration), args.Error(1)
}

func (m *MockConfigurationRepository) UpdateOptions(ctx context.Context, id string, o domain.Options) error {
	args := m.Called(ctx, id, o)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CreateIfAbsent(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockOrderRepository) FindOrCreate(ctx context.Context, order *domain.Order) (*domain.Order, bool, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Order), args.Bool(1), args.Error(2)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id string, shipping *domain.ShippingAddress, billing *domain.BillingAddress) (*domain.Order, error) {
	args := m.Called(ctx, id, shipping, billing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateAmount(ctx context.Context, id string, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) ListPaidSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) SumPaidSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Event), args.Error(1)
}

func (m *MockMailer) SendOrderReceived(ctx context.Context, msg mailer.OrderReceived) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockImageClient) Fetch(ctx context.Context, url string) (image.Image, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(image.Image), args.Error(1)
}

func (m *MockImageClient) Dimensions(ctx context.Context, url string) (int, int, error) {
	args := m.Called(ctx, url)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockObjectStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Owns(rawURL string) bool {
	args := m.Called(rawURL)
	return args.Bool(0)
}
