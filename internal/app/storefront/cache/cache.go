package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meadowmarket/internal/app/storefront/entity"
)

// Семейства ключей кеша запросов. Ключ = семейство + параметры операции.
// Поисковые, категорийные и "популярные" выборки живут внутри семейства
// products, поэтому инвалидация products накрывает их все разом.
const (
	FamilyProducts   = "products"
	FamilyProduct    = "product"
	FamilyCategories = "categories"
	FamilyCart       = "cart"
	FamilyCartTotal  = "cartTotal"
	FamilyOrders     = "orders"
	FamilyOrder      = "order"
	FamilyAllOrders  = "allOrders"
	FamilyProfile    = "currentUserProfile"
	FamilyUserRole   = "userRole"
	FamilyIsAdmin    = "isAdmin"
)

// Store - инжектируемый сервис кеша запросов, единственный разделяемый
// мутабельный ресурс витрины. Мутируется только через контракт
// fetch/invalidate: Set после успешного запроса, Invalidate после мутации,
// Reset при logout (кеш может содержать данные, привязанные к личности).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, prefixes ...string) error
	Reset(ctx context.Context) error
}

// FamilyOf возвращает семейство ключа (для метрик)
func FamilyOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// === Построение ключей ===

func ProductsKey(page, pageSize *uint64) string {
	p, s := "-", "-"
	if page != nil {
		p = fmt.Sprintf("%d", *page)
	}
	if pageSize != nil {
		s = fmt.Sprintf("%d", *pageSize)
	}
	return fmt.Sprintf("%s:list:%s:%s", FamilyProducts, p, s)
}

func SearchKey(keyword string) string {
	return fmt.Sprintf("%s:search:%s", FamilyProducts, keyword)
}

func CategoryFilterKey(id entity.CategoryID) string {
	return fmt.Sprintf("%s:category:%d", FamilyProducts, id)
}

func PopularKey(limit uint64) string {
	return fmt.Sprintf("%s:popular:%d", FamilyProducts, limit)
}

func ProductKey(id entity.ProductID) string {
	return fmt.Sprintf("%s:%d", FamilyProduct, id)
}

func CategoriesKey() string {
	return FamilyCategories + ":all"
}

// Ключи, привязанные к личности, несут principal в префиксе:
// инвалидация мутации одного пользователя не трогает чужие записи

func CartKey(principal entity.Principal) string {
	return fmt.Sprintf("%s:%s", FamilyCart, principal)
}

func CartTotalKey(principal entity.Principal) string {
	return fmt.Sprintf("%s:%s", FamilyCartTotal, principal)
}

func OrdersKey(principal entity.Principal) string {
	return fmt.Sprintf("%s:%s", FamilyOrders, principal)
}

func OrderKey(principal entity.Principal, id entity.OrderID) string {
	return fmt.Sprintf("%s:%s:%d", FamilyOrder, principal, id)
}

func AllOrdersKey() string {
	return FamilyAllOrders + ":all"
}

func ProfileKey(principal entity.Principal) string {
	return fmt.Sprintf("%s:%s", FamilyProfile, principal)
}

func UserRoleKey(principal entity.Principal) string {
	return fmt.Sprintf("%s:%s", FamilyUserRole, principal)
}

func IsAdminKey(principal entity.Principal) string {
	return fmt.Sprintf("%s:%s", FamilyIsAdmin, principal)
}

// Scoped возвращает префикс семейства, ограниченный одним пользователем
func Scoped(family string, principal entity.Principal) string {
	return fmt.Sprintf("%s:%s", family, principal)
}
