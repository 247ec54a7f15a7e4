package entity

// Идентификаторы backend'а - непрозрачные неотрицательные целые.
// Деньги всегда в минорных единицах валюты (центах), время - наносекунды epoch.

type ProductID = uint64

type CategoryID = uint64

type OrderID = uint64

// Principal - непрозрачный токен аутентифицированной личности от identity provider
type Principal = string

// Product представляет товар каталога, как его отдаёт backend gateway
type Product struct {
	ID          ProductID  `json:"id"`
	CategoryID  CategoryID `json:"categoryId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       int64      `json:"price"` // минорные единицы, >= 0
	Stock       int64      `json:"stock"` // >= 0
	Views       int64      `json:"views"`
	Purchases   int64      `json:"purchases"`
	CreatedAt   int64      `json:"createdAt"` // наносекунды since epoch
}

// Category представляет категорию каталога
type Category struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

// CartItem - позиция корзины текущего пользователя
type CartItem struct {
	ProductID ProductID `json:"productId"`
	Quantity  int64     `json:"quantity"` // >= 1
}

// OrderLine - пара товар/количество внутри заказа
type OrderLine struct {
	ProductID ProductID `json:"productId"`
	Quantity  int64     `json:"quantity"`
}

// Order представляет оформленный заказ
// Total считается backend'ом на момент checkout, клиент его только отображает
type Order struct {
	ID        OrderID     `json:"id"`
	User      Principal   `json:"user"`
	Items     []OrderLine `json:"items"`
	Address   string      `json:"address"`
	Total     int64       `json:"total"`
	Timestamp int64       `json:"timestamp"`
}

// UserProfile - профиль пользователя
type UserProfile struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// UserRole определяет видимость админских разделов
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)
