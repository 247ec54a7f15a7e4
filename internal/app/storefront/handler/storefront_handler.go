package handler

import (
	"net/http"
	"strconv"
	"strings"

	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/internal/app/storefront/service"
	"meadowmarket/internal/app/storefront/session"
	"meadowmarket/internal/app/storefront/validation"
	"meadowmarket/internal/app/storefront/view"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Витрина присоединяет позиции корзины и строки заказов к каталогу
// одной широкой выборкой. Каталог магазина заведомо меньше этой страницы.
const catalogJoinPageSize uint64 = 1000

const defaultPopularLimit uint64 = 4

// StorefrontHandler обрабатывает покупательские запросы витрины
type StorefrontHandler struct {
	queries   *service.QueryService
	mutations *service.MutationService
	validator *validator.Validate
}

func NewStorefrontHandler(queries *service.QueryService, mutations *service.MutationService) *StorefrontHandler {
	return &StorefrontHandler{
		queries:   queries,
		mutations: mutations,
		validator: validator.New(),
	}
}

// ==================== CATALOG ====================

// ListProducts возвращает отображаемый набор витрины.
// Непустой поиск побеждает фильтр категории; наборы не смешиваются.
// GET /api/v1/products?page=&pageSize=&search=&category=&sort=
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	sess := sessionFrom(c)

	keyword := c.Query("search")
	category := parseOptionalUint(c.Query("category"))
	page := parseOptionalUint(c.Query("page"))
	pageSize := parseOptionalUint(c.Query("pageSize"))

	var all, searchResults, categoryResults []entity.Product
	var err error

	switch {
	case strings.TrimSpace(keyword) != "":
		searchResults, err = h.queries.SearchProducts(c.Request.Context(), sess, strings.TrimSpace(keyword))
	case category != nil:
		categoryResults, err = h.queries.FilterProductsByCategory(c.Request.Context(), sess, *category)
	default:
		all, err = h.queries.ListProducts(c.Request.Context(), sess, page, pageSize)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	set := view.DisplaySet(all, searchResults, categoryResults, keyword, category)
	sorted := view.SortProducts(set, view.ParseSortKey(c.Query("sort")))
	views := view.NewProductViews(sorted)

	c.JSON(http.StatusOK, gin.H{
		"products": views,
		"total":    len(views),
	})
}

// GetProduct возвращает карточку товара
// GET /api/v1/products/:id
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	sess := sessionFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid product ID",
		})
		return
	}

	product, err := h.queries.GetProduct(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, view.NewProductView(*product))
}

// GetPopularProducts возвращает хиты продаж для главной страницы
// GET /api/v1/products/popular?limit=
func (h *StorefrontHandler) GetPopularProducts(c *gin.Context) {
	sess := sessionFrom(c)

	limit := defaultPopularLimit
	if parsed := parseOptionalUint(c.Query("limit")); parsed != nil && *parsed > 0 {
		limit = *parsed
	}

	products, err := h.queries.GetPopularProducts(c.Request.Context(), sess, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	views := view.NewProductViews(products)
	c.JSON(http.StatusOK, gin.H{
		"products": views,
		"total":    len(views),
	})
}

// ListCategories возвращает все категории каталога
// GET /api/v1/categories
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	sess := sessionFrom(c)

	categories, err := h.queries.ListCategories(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// ==================== CART ====================

// GetCart возвращает корзину, соединённую с каталогом.
// Итог берётся с backend'а, подытог пересчитывается только для показа.
// GET /api/v1/cart
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	sess := sessionFrom(c)

	items, err := h.queries.GetCart(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := h.queries.GetCartTotal(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.loadCatalog(c, sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view.NewCartView(items, products, total))
}

// AddToCart добавляет товар в корзину
// POST /api/v1/cart
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	sess := sessionFrom(c)

	var req entity.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
		return
	}

	if msg := validation.ValidateQuantity(req.Quantity); msg != "" {
		c.JSON(http.StatusBadRequest, entity.ValidationErrorResponse{
			Error:  "validation_failed",
			Fields: map[string]string{"quantity": msg},
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.mutations.AddToCart(c.Request.Context(), sess, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product added to cart"})
}

// UpdateCartQuantity меняет количество позиции корзины
// PUT /api/v1/cart/:productId
func (h *StorefrontHandler) UpdateCartQuantity(c *gin.Context) {
	sess := sessionFrom(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid product ID",
		})
		return
	}

	var req entity.UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
		return
	}

	if msg := validation.ValidateQuantity(req.Quantity); msg != "" {
		c.JSON(http.StatusBadRequest, entity.ValidationErrorResponse{
			Error:  "validation_failed",
			Fields: map[string]string{"quantity": msg},
		})
		return
	}

	if err := h.mutations.UpdateCartQuantity(c.Request.Context(), sess, productID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Cart updated"})
}

// RemoveFromCart удаляет позицию из корзины
// DELETE /api/v1/cart/:productId
func (h *StorefrontHandler) RemoveFromCart(c *gin.Context) {
	sess := sessionFrom(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid product ID",
		})
		return
	}

	if err := h.mutations.RemoveFromCart(c.Request.Context(), sess, productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product removed from cart"})
}

// ClearCart опустошает корзину
// DELETE /api/v1/cart
func (h *StorefrontHandler) ClearCart(c *gin.Context) {
	sess := sessionFrom(c)

	if err := h.mutations.ClearCart(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Cart cleared"})
}

// ==================== CHECKOUT ====================

// Checkout оформляет заказ из текущей корзины.
// Форма проверяется до обращения к gateway; ошибки полей идут inline.
// POST /api/v1/checkout
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	sess := sessionFrom(c)

	var req entity.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
		return
	}

	if fields := validation.ValidateCheckoutForm(req); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, entity.ValidationErrorResponse{
			Error:  "validation_failed",
			Fields: fields,
		})
		return
	}

	orderID, err := h.mutations.Checkout(c.Request.Context(), sess, strings.TrimSpace(req.Address))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.CheckoutResponse{OrderID: orderID})
}

// ==================== ORDERS ====================

// GetOrderHistory возвращает заказы пользователя, соединённые с каталогом
// GET /api/v1/orders
func (h *StorefrontHandler) GetOrderHistory(c *gin.Context) {
	sess := sessionFrom(c)

	orders, err := h.queries.GetOrderHistory(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.loadCatalog(c, sess)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]view.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, view.NewOrderView(order, products))
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": views,
		"total":  len(views),
	})
}

// GetOrder возвращает один заказ пользователя
// GET /api/v1/orders/:id
func (h *StorefrontHandler) GetOrder(c *gin.Context) {
	sess := sessionFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid order ID",
		})
		return
	}

	order, err := h.queries.GetOrder(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{
			Error:   "not_found",
			Message: "Order not found",
		})
		return
	}

	products, err := h.loadCatalog(c, sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view.NewOrderView(*order, products))
}

// ==================== PROFILE ====================

// GetProfile возвращает профиль текущего пользователя (null, если не создан)
// GET /api/v1/profile
func (h *StorefrontHandler) GetProfile(c *gin.Context) {
	sess := sessionFrom(c)

	profile, err := h.queries.GetCallerUserProfile(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SaveProfile сохраняет профиль текущего пользователя
// PUT /api/v1/profile
func (h *StorefrontHandler) SaveProfile(c *gin.Context) {
	sess := sessionFrom(c)

	var req entity.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	profile := entity.UserProfile{Name: req.Name, Email: req.Email}
	if err := h.mutations.SaveCallerUserProfile(c.Request.Context(), sess, profile); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Profile saved"})
}

// GetRole возвращает роль текущего пользователя и флаг админа
// GET /api/v1/profile/role
func (h *StorefrontHandler) GetRole(c *gin.Context) {
	sess := sessionFrom(c)

	role, err := h.queries.GetCallerUserRole(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	isAdmin, err := h.queries.IsCallerAdmin(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":    role,
		"isAdmin": isAdmin,
	})
}

// ==================== SESSION ====================

// Logout сбрасывает кеш запросов целиком.
// Частичная инвалидация здесь не допускается: кеш может содержать
// данные, привязанные к личности.
// POST /api/v1/logout
func (h *StorefrontHandler) Logout(c *gin.Context) {
	if err := h.mutations.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Logged out"})
}

// MutationStatus возвращает состояние мутации пользователя
// (idle, pending, succeeded или failed с причиной)
// GET /api/v1/mutations/:name/status
func (h *StorefrontHandler) MutationStatus(c *gin.Context) {
	sess := sessionFrom(c)
	state := h.mutations.Status(sess.Principal, c.Param("name"))
	c.JSON(http.StatusOK, state)
}

// loadCatalog загружает каталог одной широкой страницей для join'ов
func (h *StorefrontHandler) loadCatalog(c *gin.Context, sess session.Session) ([]entity.Product, error) {
	page := uint64(0)
	pageSize := catalogJoinPageSize
	return h.queries.ListProducts(c.Request.Context(), sess, &page, &pageSize)
}

// parseOptionalUint разбирает необязательный числовой параметр запроса
func parseOptionalUint(value string) *uint64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
