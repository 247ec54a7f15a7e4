package entity

type AddToCartRequest struct {
	ProductID ProductID `json:"productId" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required,gte=1"`
}

type UpdateCartQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gte=1"`
}

// CheckoutRequest проверяется чистым валидатором формы (validation.ValidateCheckoutForm)
type CheckoutRequest struct {
	Address string `json:"address"`
}

// ProductFormRequest - форма товара в админке.
// Поля price/stock приходят строками как из формы и парсятся валидатором.
type ProductFormRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       string `json:"stock"`
	CategoryID  string `json:"categoryId"`
}

type AddCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type SaveProfileRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type AssignRoleRequest struct {
	User Principal `json:"user" validate:"required"`
	Role UserRole  `json:"role" validate:"required,oneof=admin user guest"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse возвращает ошибки полей формы inline, без обращения к gateway
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

type CheckoutResponse struct {
	OrderID OrderID `json:"orderId"`
}
