package mocks

import (
	"context"
	"time"

	"meadowmarket/internal/app/storefront/entity"

	"github.com/stretchr/testify/mock"
)

// MockGateway - мок backend gateway для unit тестов сервисов

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListProducts(ctx context.Context, token string, page, pageSize *uint64) ([]entity.Product, error) {
	args := m.Called(ctx, token, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockGateway) GetProduct(ctx context.Context, token string, id entity.ProductID) (*entity.Product, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockGateway) SearchProducts(ctx context.Context, token, keyword string) ([]entity.Product, error) {
	args := m.Called(ctx, token, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockGateway) FilterProductsByCategory(ctx context.Context, token string, categoryID entity.CategoryID) ([]entity.Product, error) {
	args := m.Called(ctx, token, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockGateway) GetPopularProducts(ctx context.Context, token string, limit uint64) ([]entity.Product, error) {
	args := m.Called(ctx, token, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockGateway) AddProduct(ctx context.Context, token, title, description string, price, stock int64, categoryID entity.CategoryID) (entity.ProductID, error) {
	args := m.Called(ctx, token, title, description, price, stock, categoryID)
	return args.Get(0).(entity.ProductID), args.Error(1)
}

func (m *MockGateway) UpdateProduct(ctx context.Context, token string, id entity.ProductID, title, description string, price, stock int64, categoryID entity.CategoryID) error {
	args := m.Called(ctx, token, id, title, description, price, stock, categoryID)
	return args.Error(0)
}

func (m *MockGateway) DeleteProduct(ctx context.Context, token string, id entity.ProductID) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockGateway) ListCategories(ctx context.Context, token string) ([]entity.Category, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockGateway) AddCategory(ctx context.Context, token, name string) (entity.CategoryID, error) {
	args := m.Called(ctx, token, name)
	return args.Get(0).(entity.CategoryID), args.Error(1)
}

func (m *MockGateway) GetCart(ctx context.Context, token string) ([]entity.CartItem, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CartItem), args.Error(1)
}

func (m *MockGateway) GetCartTotal(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) AddToCart(ctx context.Context, token string, productID entity.ProductID, quantity int64) error {
	args := m.Called(ctx, token, productID, quantity)
	return args.Error(0)
}

func (m *MockGateway) RemoveFromCart(ctx context.Context, token string, productID entity.ProductID) error {
	args := m.Called(ctx, token, productID)
	return args.Error(0)
}

func (m *MockGateway) UpdateCartQuantity(ctx context.Context, token string, productID entity.ProductID, quantity int64) error {
	args := m.Called(ctx, token, productID, quantity)
	return args.Error(0)
}

func (m *MockGateway) ClearCart(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockGateway) Checkout(ctx context.Context, token, address string) (entity.OrderID, error) {
	args := m.Called(ctx, token, address)
	return args.Get(0).(entity.OrderID), args.Error(1)
}

func (m *MockGateway) GetOrderHistory(ctx context.Context, token string) ([]entity.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockGateway) GetOrder(ctx context.Context, token string, id entity.OrderID) (*entity.Order, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockGateway) GetOrdersByUser(ctx context.Context, token string, user entity.Principal) ([]entity.Order, error) {
	args := m.Called(ctx, token, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockGateway) GetAllOrders(ctx context.Context, token string) ([]entity.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockGateway) GetCallerUserProfile(ctx context.Context, token string) (*entity.UserProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockGateway) SaveCallerUserProfile(ctx context.Context, token string, profile entity.UserProfile) error {
	args := m.Called(ctx, token, profile)
	return args.Error(0)
}

func (m *MockGateway) GetUserProfile(ctx context.Context, token string, user entity.Principal) (*entity.UserProfile, error) {
	args := m.Called(ctx, token, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockGateway) GetCallerUserRole(ctx context.Context, token string) (entity.UserRole, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(entity.UserRole), args.Error(1)
}

func (m *MockGateway) IsCallerAdmin(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockGateway) AssignCallerUserRole(ctx context.Context, token string, user entity.Principal, role entity.UserRole) error {
	args := m.Called(ctx, token, user, role)
	return args.Error(0)
}

func (m *MockGateway) Initialize(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockStore - мок кеша запросов

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockStore) Invalidate(ctx context.Context, prefixes ...string) error {
	callArgs := make([]interface{}, 0, len(prefixes)+1)
	callArgs = append(callArgs, ctx)
	for _, p := range prefixes {
		callArgs = append(callArgs, p)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *MockStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
