package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/internal/app/storefront/service"
	"meadowmarket/internal/app/storefront/validation"
	"meadowmarket/internal/app/storefront/view"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AdminHandler обрабатывает запросы админской консоли.
// Права проверяются middleware'ом RequireAdmin и повторно backend'ом.
type AdminHandler struct {
	queries   *service.QueryService
	mutations *service.MutationService
	validator *validator.Validate
}

func NewAdminHandler(queries *service.QueryService, mutations *service.MutationService) *AdminHandler {
	return &AdminHandler{
		queries:   queries,
		mutations: mutations,
		validator: validator.New(),
	}
}

// ==================== DASHBOARD ====================

// Dashboard возвращает агрегаты: число товаров, число заказов и выручку.
// Выручка - сумма серверных итогов заказов, считается только для показа.
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	sess := sessionFrom(c)

	page := uint64(0)
	pageSize := catalogJoinPageSize
	products, err := h.queries.ListProducts(c.Request.Context(), sess, &page, &pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.queries.GetAllOrders(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view.Dashboard(products, orders))
}

// ==================== PRODUCTS ====================

// AddProduct создаёт товар из формы админки.
// Цена приходит строкой в мажорных единицах и округляется до центов.
// POST /api/v1/admin/products
func (h *AdminHandler) AddProduct(c *gin.Context) {
	sess := sessionFrom(c)

	var form entity.ProductFormRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
		return
	}

	if fields := validation.ValidateProductForm(form); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, entity.ValidationErrorResponse{
			Error:  "validation_failed",
			Fields: fields,
		})
		return
	}

	price, stock, categoryID, convErr := convertProductForm(form)
	if convErr != "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "validation_failed",
			Message: convErr,
		})
		return
	}

	productID, err := h.mutations.AddProduct(c.Request.Context(), sess,
		strings.TrimSpace(form.Title), strings.TrimSpace(form.Description), price, stock, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": productID})
}

// UpdateProduct обновляет товар
// PUT /api/v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	sess := sessionFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid product ID",
		})
		return
	}

	var form entity.ProductFormRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
		return
	}

	if fields := validation.ValidateProductForm(form); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, entity.ValidationErrorResponse{
			Error:  "validation_failed",
			Fields: fields,
		})
		return
	}

	price, stock, categoryID, convErr := convertProductForm(form)
	if convErr != "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "validation_failed",
			Message: convErr,
		})
		return
	}

	if err := h.mutations.UpdateProduct(c.Request.Context(), sess, id,
		strings.TrimSpace(form.Title), strings.TrimSpace(form.Description), price, stock, categoryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product updated"})
}

// DeleteProduct удаляет товар
// DELETE /api/v1/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	sess := sessionFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid product ID",
		})
		return
	}

	if err := h.mutations.DeleteProduct(c.Request.Context(), sess, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product deleted"})
}

// ==================== CATEGORIES ====================

// AddCategory создаёт категорию
// POST /api/v1/admin/categories
func (h *AdminHandler) AddCategory(c *gin.Context) {
	sess := sessionFrom(c)

	var req entity.AddCategoryRequest
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

	categoryID, err := h.mutations.AddCategory(c.Request.Context(), sess, strings.TrimSpace(req.Name))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": categoryID})
}

// ==================== ORDERS ====================

// GetAllOrders возвращает заказы всех пользователей
// GET /api/v1/admin/orders
func (h *AdminHandler) GetAllOrders(c *gin.Context) {
	sess := sessionFrom(c)

	orders, err := h.queries.GetAllOrders(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{
		Orders: orders,
		Total:  len(orders),
	})
}

// GetOrdersByUser возвращает заказы одного пользователя
// GET /api/v1/admin/orders/user/:user
func (h *AdminHandler) GetOrdersByUser(c *gin.Context) {
	sess := sessionFrom(c)

	user := c.Param("user")
	if user == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "User is required",
		})
		return
	}

	orders, err := h.queries.GetOrdersByUser(c.Request.Context(), sess, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{
		Orders: orders,
		Total:  len(orders),
	})
}

// ==================== USERS ====================

// GetUserProfile возвращает профиль произвольного пользователя (null, если не создан)
// GET /api/v1/admin/users/:user/profile
func (h *AdminHandler) GetUserProfile(c *gin.Context) {
	sess := sessionFrom(c)

	user := c.Param("user")
	if user == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "invalid_request",
			Message: "User is required",
		})
		return
	}

	profile, err := h.queries.GetUserProfile(c.Request.Context(), sess, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ==================== ROLES ====================

// AssignRole назначает роль пользователю
// POST /api/v1/admin/roles
func (h *AdminHandler) AssignRole(c *gin.Context) {
	sess := sessionFrom(c)

	var req entity.AssignRoleRequest
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

	if err := h.mutations.AssignCallerUserRole(c.Request.Context(), sess, req.User, req.Role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Role assigned"})
}

// ==================== SEED ====================

// Initialize наполняет пустой каталог демонстрационными данными
// POST /api/v1/admin/initialize
func (h *AdminHandler) Initialize(c *gin.Context) {
	sess := sessionFrom(c)

	if err := h.mutations.Initialize(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Store initialized"})
}

// convertProductForm переводит провалидированную форму в аргументы gateway.
// Цена в форме в мажорных единицах, backend принимает центы.
func convertProductForm(form entity.ProductFormRequest) (price, stock int64, categoryID entity.CategoryID, errMsg string) {
	priceFloat, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		return 0, 0, 0, "Price must be greater than 0"
	}
	price = int64(math.Round(priceFloat * 100))

	stock, err = strconv.ParseInt(form.Stock, 10, 64)
	if err != nil {
		return 0, 0, 0, "Stock must be 0 or greater"
	}

	categoryID, err = strconv.ParseUint(form.CategoryID, 10, 64)
	if err != nil {
		return 0, 0, 0, "Category is required"
	}

	return price, stock, categoryID, ""
}
