package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/pkg/metrics"

	"github.com/google/uuid"
)

const serviceName = "storefront-service"

// Error - отказ backend gateway по конкретной операции.
// Message сохраняется дословно и показывается пользователю как уведомление.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s: %s (status %d)", e.Op, e.Message, e.Status)
}

// Client - HTTP клиент backend gateway.
// Все операции асинхронные request/response, тело и ответ - JSON.
// Отсутствие значения backend кодирует как JSON null, это не ошибка.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент gateway с таймаутом на каждый вызов
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ping проверяет готовность gateway. Пока Ping не прошёл,
// сессии остаются в состоянии uninitialized и запросы не выдаются.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway not ready: status %d", resp.StatusCode)
	}

	return nil
}

// call выполняет один RPC вызов: POST {base}/api/{op} c JSON аргументами.
// token - JWT identity provider'а, прокидывается как Bearer (пустой - анонимный вызов).
// out == nil означает что операция ничего не возвращает.
func (c *Client) call(ctx context.Context, token, op string, args interface{}, out interface{}) error {
	timer := metrics.NewGatewayTimer(serviceName, op)

	body, err := json.Marshal(args)
	if err != nil {
		timer.Observe("error")
		return fmt.Errorf("failed to marshal %s args: %w", op, err)
	}

	url := fmt.Sprintf("%s/api/%s", c.baseURL, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		timer.Observe("error")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		timer.Observe("error")
		return fmt.Errorf("failed to call %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		timer.Observe("rejected")
		// Сохраняем сообщение backend'а: оно уходит пользователю как есть
		var errResp entity.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr != nil || errResp.Message == "" {
			errResp.Message = http.StatusText(resp.StatusCode)
		}
		return &Error{Op: op, Status: resp.StatusCode, Message: errResp.Message}
	}

	if out != nil {
		// JSON null (значение отсутствует) оставляет out нетронутым
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			timer.Observe("error")
			return fmt.Errorf("failed to decode %s response: %w", op, err)
		}
	}

	timer.Observe("ok")
	return nil
}

// === PRODUCTS ===

func (c *Client) ListProducts(ctx context.Context, token string, page, pageSize *uint64) ([]entity.Product, error) {
	args := struct {
		Page     *uint64 `json:"page"`
		PageSize *uint64 `json:"pageSize"`
	}{page, pageSize}

	var products []entity.Product
	if err := c.call(ctx, token, "listProducts", args, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, token string, id entity.ProductID) (*entity.Product, error) {
	args := struct {
		ProductID entity.ProductID `json:"productId"`
	}{id}

	var product *entity.Product
	if err := c.call(ctx, token, "getProduct", args, &product); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *Client) SearchProducts(ctx context.Context, token, keyword string) ([]entity.Product, error) {
	args := struct {
		Keyword string `json:"keyword"`
	}{keyword}

	var products []entity.Product
	if err := c.call(ctx, token, "searchProducts", args, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) FilterProductsByCategory(ctx context.Context, token string, categoryID entity.CategoryID) ([]entity.Product, error) {
	args := struct {
		CategoryID entity.CategoryID `json:"categoryId"`
	}{categoryID}

	var products []entity.Product
	if err := c.call(ctx, token, "filterProductsByCategory", args, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetPopularProducts(ctx context.Context, token string, limit uint64) ([]entity.Product, error) {
	args := struct {
		Limit uint64 `json:"limit"`
	}{limit}

	var products []entity.Product
	if err := c.call(ctx, token, "getPopularProducts", args, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) AddProduct(ctx context.Context, token, title, description string, price, stock int64, categoryID entity.CategoryID) (entity.ProductID, error) {
	args := struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Price       int64             `json:"price"`
		Stock       int64             `json:"stock"`
		CategoryID  entity.CategoryID `json:"categoryId"`
	}{title, description, price, stock, categoryID}

	var id entity.ProductID
	if err := c.call(ctx, token, "addProduct", args, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id entity.ProductID, title, description string, price, stock int64, categoryID entity.CategoryID) error {
	args := struct {
		ProductID   entity.ProductID  `json:"productId"`
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Price       int64             `json:"price"`
		Stock       int64             `json:"stock"`
		CategoryID  entity.CategoryID `json:"categoryId"`
	}{id, title, description, price, stock, categoryID}

	return c.call(ctx, token, "updateProduct", args, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id entity.ProductID) error {
	args := struct {
		ProductID entity.ProductID `json:"productId"`
	}{id}

	return c.call(ctx, token, "deleteProduct", args, nil)
}

// === CATEGORIES ===

func (c *Client) ListCategories(ctx context.Context, token string) ([]entity.Category, error) {
	var categories []entity.Category
	if err := c.call(ctx, token, "listCategories", struct{}{}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) AddCategory(ctx context.Context, token, name string) (entity.CategoryID, error) {
	args := struct {
		Name string `json:"name"`
	}{name}

	var id entity.CategoryID
	if err := c.call(ctx, token, "addCategory", args, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// === CART ===

func (c *Client) GetCart(ctx context.Context, token string) ([]entity.CartItem, error) {
	var items []entity.CartItem
	if err := c.call(ctx, token, "getCart", struct{}{}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetCartTotal(ctx context.Context, token string) (int64, error) {
	var total int64
	if err := c.call(ctx, token, "getCartTotal", struct{}{}, &total); err != nil {
		return 0, err
	}
	return total, nil
}

func (c *Client) AddToCart(ctx context.Context, token string, productID entity.ProductID, quantity int64) error {
	args := struct {
		ProductID entity.ProductID `json:"productId"`
		Quantity  int64            `json:"quantity"`
	}{productID, quantity}

	return c.call(ctx, token, "addToCart", args, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, token string, productID entity.ProductID) error {
	args := struct {
		ProductID entity.ProductID `json:"productId"`
	}{productID}

	return c.call(ctx, token, "removeFromCart", args, nil)
}

func (c *Client) UpdateCartQuantity(ctx context.Context, token string, productID entity.ProductID, quantity int64) error {
	args := struct {
		ProductID entity.ProductID `json:"productId"`
		Quantity  int64            `json:"quantity"`
	}{productID, quantity}

	return c.call(ctx, token, "updateCartQuantity", args, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.call(ctx, token, "clearCart", struct{}{}, nil)
}

// === ORDERS ===

func (c *Client) Checkout(ctx context.Context, token, address string) (entity.OrderID, error) {
	args := struct {
		Address string `json:"address"`
	}{address}

	var id entity.OrderID
	if err := c.call(ctx, token, "checkout", args, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) GetOrderHistory(ctx context.Context, token string) ([]entity.Order, error) {
	var orders []entity.Order
	if err := c.call(ctx, token, "getOrderHistory", struct{}{}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, token string, id entity.OrderID) (*entity.Order, error) {
	args := struct {
		OrderID entity.OrderID `json:"orderId"`
	}{id}

	var order *entity.Order
	if err := c.call(ctx, token, "getOrder", args, &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (c *Client) GetOrdersByUser(ctx context.Context, token string, user entity.Principal) ([]entity.Order, error) {
	args := struct {
		User entity.Principal `json:"user"`
	}{user}

	var orders []entity.Order
	if err := c.call(ctx, token, "getOrdersByUser", args, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetAllOrders(ctx context.Context, token string) ([]entity.Order, error) {
	var orders []entity.Order
	if err := c.call(ctx, token, "getAllOrders", struct{}{}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// === PROFILE / ROLES ===

func (c *Client) GetCallerUserProfile(ctx context.Context, token string) (*entity.UserProfile, error) {
	var profile *entity.UserProfile
	if err := c.call(ctx, token, "getCallerUserProfile", struct{}{}, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) SaveCallerUserProfile(ctx context.Context, token string, profile entity.UserProfile) error {
	args := struct {
		Profile entity.UserProfile `json:"profile"`
	}{profile}

	return c.call(ctx, token, "saveCallerUserProfile", args, nil)
}

func (c *Client) GetUserProfile(ctx context.Context, token string, user entity.Principal) (*entity.UserProfile, error) {
	args := struct {
		User entity.Principal `json:"user"`
	}{user}

	var profile *entity.UserProfile
	if err := c.call(ctx, token, "getUserProfile", args, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) GetCallerUserRole(ctx context.Context, token string) (entity.UserRole, error) {
	var role entity.UserRole
	if err := c.call(ctx, token, "getCallerUserRole", struct{}{}, &role); err != nil {
		return "", err
	}
	return role, nil
}

func (c *Client) IsCallerAdmin(ctx context.Context, token string) (bool, error) {
	var isAdmin bool
	if err := c.call(ctx, token, "isCallerAdmin", struct{}{}, &isAdmin); err != nil {
		return false, err
	}
	return isAdmin, nil
}

func (c *Client) AssignCallerUserRole(ctx context.Context, token string, user entity.Principal, role entity.UserRole) error {
	args := struct {
		User entity.Principal `json:"user"`
		Role entity.UserRole  `json:"role"`
	}{user, role}

	return c.call(ctx, token, "assignCallerUserRole", args, nil)
}

// === SEED ===

// Initialize наполняет backend демо-каталогом
func (c *Client) Initialize(ctx context.Context, token string) error {
	return c.call(ctx, token, "initialize", struct{}{}, nil)
}
