package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"caseshop/internal/auth"
	"caseshop/internal/domain"
	"caseshop/internal/infra/payment"
	"caseshop/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutMocks struct {
	configs   *mocks.MockConfigurationRepository
	orders    *mocks.MockOrderRepository
	users     *mocks.MockUserRepository
	gateway   *mocks.MockGateway
	publisher *mocks.MockPublisher
}

func newCheckoutMocks() checkoutMocks {
	return checkoutMocks{
		configs:   new(mocks.MockConfigurationRepository),
		orders:    new(mocks.MockOrderRepository),
		users:     new(mocks.MockUserRepository),
		gateway:   new(mocks.MockGateway),
		publisher: new(mocks.MockPublisher),
	}
}

func (m checkoutMocks) service() *CheckoutService {
	return NewCheckoutService(m.configs, m.orders, NewUserService(m.users), m.gateway, m.publisher, TestBaseURL+"/")
}

func (m checkoutMocks) assert(t *testing.T) {
	m.configs.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestCheckoutService_CreateCheckoutSession(t *testing.T) {
	opts := domain.Options{
		Color:    domain.ColorBlack,
		Model:    domain.ModelIPhone14,
		Material: domain.MaterialPolycarbonate,
		Finish:   domain.FinishTextured,
	}

	tests := []struct {
		name          string
		session       auth.Session
		setupMocks    func(checkoutMocks)
		expectedError error
		expectedURL   string
	}{
		{
			name:    "new order",
			session: TestSession,
			setupMocks: func(m checkoutMocks) {
				m.configs.On("FindByID", mock.Anything, TestConfigID).Return(CreateMockConfiguration(TestConfigID, opts), nil)
				m.users.On("CreateIfAbsent", mock.Anything, &domain.User{ID: TestUserID, Email: TestEmail}).Return(nil)
				m.orders.On("FindOrCreate", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
					return o.UserID == TestUserID && o.ConfigurationID == TestConfigID &&
						o.Amount == 2200 && o.Status == domain.StatusAwaitingShipment
				})).Return(CreateMockOrder(TestOrderID, TestUserID, TestConfigID, 2200, false), true, nil)
				m.gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req payment.CheckoutRequest) bool {
					return req.Amount == 2200 &&
						req.Currency == "usd" &&
						req.ProductName == ProductName &&
						req.SuccessURL == TestBaseURL+"/thank-you?orderId="+TestOrderID &&
						req.CancelURL == TestBaseURL+"/configure/preview?id="+TestConfigID &&
						req.Metadata["userId"] == TestUserID &&
						req.Metadata["orderId"] == TestOrderID
				})).Return(&payment.CheckoutSession{ID: "cs_1", URL: "https://pay/cs_1"}, nil)
				m.publisher.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil).Maybe()
			},
			expectedURL: "https://pay/cs_1",
		},
		{
			name:    "existing order is reused",
			session: TestSession,
			setupMocks: func(m checkoutMocks) {
				m.configs.On("FindByID", mock.Anything, TestConfigID).Return(CreateMockConfiguration(TestConfigID, opts), nil)
				m.users.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(nil)
				m.orders.On("FindOrCreate", mock.Anything, mock.Anything).
					Return(CreateMockOrder(TestOrderID, TestUserID, TestConfigID, 2200, false), false, nil)
				m.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
					Return(&payment.CheckoutSession{ID: "cs_2", URL: "https://pay/cs_2"}, nil)
			},
			expectedURL: "https://pay/cs_2",
		},
		{
			name:    "configuration not found",
			session: TestSession,
			setupMocks: func(m checkoutMocks) {
				m.configs.On("FindByID", mock.Anything, TestConfigID).Return(nil, nil)
			},
			expectedError: domain.ErrConfigurationNotFound,
		},
		{
			name:    "anonymous caller",
			session: auth.Session{},
			setupMocks: func(m checkoutMocks) {
				m.configs.On("FindByID", mock.Anything, TestConfigID).Return(CreateMockConfiguration(TestConfigID, opts), nil)
			},
			expectedError: domain.ErrNotLoggedIn,
		},
		{
			name:    "gateway failure",
			session: TestSession,
			setupMocks: func(m checkoutMocks) {
				m.configs.On("FindByID", mock.Anything, TestConfigID).Return(CreateMockConfiguration(TestConfigID, opts), nil)
				m.users.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(nil)
				m.orders.On("FindOrCreate", mock.Anything, mock.Anything).
					Return(CreateMockOrder(TestOrderID, TestUserID, TestConfigID, 2200, false), true, nil)
				m.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("stripe down"))
			},
			expectedError: errors.New("stripe down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newCheckoutMocks()
			tt.setupMocks(m)

			result, err := m.service().CreateCheckoutSession(context.Background(), tt.session, TestConfigID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedURL, result.URL)
				assert.Equal(t, TestOrderID, result.OrderID)
			}

			time.Sleep(50 * time.Millisecond)
			m.assert(t)
		})
	}
}

func TestCheckoutService_RepeatedCheckoutKeepsOneOrder(t *testing.T) {
	m := newCheckoutMocks()
	order := CreateMockOrder(TestOrderID, TestUserID, TestConfigID, 1400, false)

	m.configs.On("FindByID", mock.Anything, TestConfigID).Return(CreateMockConfiguration(TestConfigID, domain.Options{}), nil)
	m.users.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(nil)
	m.orders.On("FindOrCreate", mock.Anything, mock.Anything).Return(order, true, nil).Once()
	m.orders.On("FindOrCreate", mock.Anything, mock.Anything).Return(order, false, nil).Once()
	m.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{ID: "cs", URL: "https://pay/cs"}, nil).Twice()
	m.publisher.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil).Once()

	service := m.service()
	first, err := service.CreateCheckoutSession(context.Background(), TestSession, TestConfigID)
	require.NoError(t, err)
	second, err := service.CreateCheckoutSession(context.Background(), TestSession, TestConfigID)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)

	time.Sleep(100 * time.Millisecond)
	m.assert(t)
}

func TestCheckoutService_RepricesStaleOrder(t *testing.T) {
	m := newCheckoutMocks()
	opts := domain.Options{
		Color:    domain.ColorBlack,
		Model:    domain.ModelIPhone13,
		Material: domain.MaterialPolycarbonate,
		Finish:   domain.FinishTextured,
	}

	m.configs.On("FindByID", mock.Anything, TestConfigID).Return(CreateMockConfiguration(TestConfigID, opts), nil)
	m.users.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(nil)
	m.orders.On("FindOrCreate", mock.Anything, mock.Anything).
		Return(CreateMockOrder(TestOrderID, TestUserID, TestConfigID, 1400, false), false, nil)
	m.orders.On("UpdateAmount", mock.Anything, TestOrderID, int64(2200)).Return(nil)
	m.gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req payment.CheckoutRequest) bool {
		return req.Amount == 2200
	})).Return(&payment.CheckoutSession{ID: "cs_3", URL: "https://pay/cs_3"}, nil)

	result, err := m.service().CreateCheckoutSession(context.Background(), TestSession, TestConfigID)
	require.NoError(t, err)
	assert.Equal(t, TestOrderID, result.OrderID)
	m.assert(t)
}

func TestCheckoutService_RepriceFailure(t *testing.T) {
	m := newCheckoutMocks()
	m.configs.On("FindByID", mock.Anything, TestConfigID).Return(CreateMockConfiguration(TestConfigID, domain.Options{}), nil)
	m.users.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(nil)
	m.orders.On("FindOrCreate", mock.Anything, mock.Anything).
		Return(CreateMockOrder(TestOrderID, TestUserID, TestConfigID, 2200, false), false, nil)
	m.orders.On("UpdateAmount", mock.Anything, TestOrderID, int64(1400)).Return(errors.New("db gone"))

	result, err := m.service().CreateCheckoutSession(context.Background(), TestSession, TestConfigID)
	assert.Error(t, err)
	assert.Nil(t, result)
	m.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	m.assert(t)
}
