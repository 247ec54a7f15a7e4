package service

import (
	"context"

	"meadowmarket/internal/app/storefront/entity"
)

// Gateway - полный RPC контракт backend gateway.
// Клиент никогда не мутирует сущности сам: любое изменение состояния -
// это вызов мутации с последующей инвалидацией кеша и повторной выборкой.
type Gateway interface {
	ListProducts(ctx context.Context, token string, page, pageSize *uint64) ([]entity.Product, error)
	GetProduct(ctx context.Context, token string, id entity.ProductID) (*entity.Product, error)
	SearchProducts(ctx context.Context, token, keyword string) ([]entity.Product, error)
	FilterProductsByCategory(ctx context.Context, token string, categoryID entity.CategoryID) ([]entity.Product, error)
	GetPopularProducts(ctx context.Context, token string, limit uint64) ([]entity.Product, error)
	AddProduct(ctx context.Context, token, title, description string, price, stock int64, categoryID entity.CategoryID) (entity.ProductID, error)
	UpdateProduct(ctx context.Context, token string, id entity.ProductID, title, description string, price, stock int64, categoryID entity.CategoryID) error
	DeleteProduct(ctx context.Context, token string, id entity.ProductID) error

	ListCategories(ctx context.Context, token string) ([]entity.Category, error)
	AddCategory(ctx context.Context, token, name string) (entity.CategoryID, error)

	GetCart(ctx context.Context, token string) ([]entity.CartItem, error)
	GetCartTotal(ctx context.Context, token string) (int64, error)
	AddToCart(ctx context.Context, token string, productID entity.ProductID, quantity int64) error
	RemoveFromCart(ctx context.Context, token string, productID entity.ProductID) error
	UpdateCartQuantity(ctx context.Context, token string, productID entity.ProductID, quantity int64) error
	ClearCart(ctx context.Context, token string) error

	Checkout(ctx context.Context, token, address string) (entity.OrderID, error)
	GetOrderHistory(ctx context.Context, token string) ([]entity.Order, error)
	GetOrder(ctx context.Context, token string, id entity.OrderID) (*entity.Order, error)
	GetOrdersByUser(ctx context.Context, token string, user entity.Principal) ([]entity.Order, error)
	GetAllOrders(ctx context.Context, token string) ([]entity.Order, error)

	GetCallerUserProfile(ctx context.Context, token string) (*entity.UserProfile, error)
	SaveCallerUserProfile(ctx context.Context, token string, profile entity.UserProfile) error
	GetUserProfile(ctx context.Context, token string, user entity.Principal) (*entity.UserProfile, error)

	GetCallerUserRole(ctx context.Context, token string) (entity.UserRole, error)
	IsCallerAdmin(ctx context.Context, token string) (bool, error)
	AssignCallerUserRole(ctx context.Context, token string, user entity.Principal, role entity.UserRole) error

	Initialize(ctx context.Context, token string) error
}
