package service

import (
	"context"
	"encoding/json"
	"time"

	"meadowmarket/internal/app/storefront/cache"
	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/internal/app/storefront/session"
	"meadowmarket/pkg/logger"
	"meadowmarket/pkg/metrics"
)

const serviceName = "storefront-service"

// QueryService выполняет все выборки по единому контракту:
// проверка состояния сессии -> кеш -> gateway -> запись в кеш.
// Невыполненное условие состояния даёт пустое значение без похода в сеть.
// Ключи независимы: никакого глобального порядка между выборками нет.
type QueryService struct {
	gw    Gateway
	store cache.Store
	ttl   time.Duration
}

func NewQueryService(gw Gateway, store cache.Store, ttl time.Duration) *QueryService {
	return &QueryService{
		gw:    gw,
		store: store,
		ttl:   ttl,
	}
}

// cached пытается прочитать ключ из кеша; ошибки кеша не критичны -
// логируются, выборка уходит в gateway
func (s *QueryService) cached(ctx context.Context, key string, out interface{}) bool {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if !ok {
		metrics.RecordCacheMiss(serviceName, cache.FamilyOf(key))
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupted")
		return false
	}
	metrics.RecordCacheHit(serviceName, cache.FamilyOf(key))
	return true
}

// put сохраняет результат выборки; ошибка кеша не прерывает выполнение -
// данные уже получены из gateway
func (s *QueryService) put(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to marshal cache entry")
		return
	}
	if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// === PRODUCTS ===

func (s *QueryService) ListProducts(ctx context.Context, sess session.Session, page, pageSize *uint64) ([]entity.Product, error) {
	if !sess.Meets(session.StateAnonymous) {
		return []entity.Product{}, nil
	}

	key := cache.ProductsKey(page, pageSize)
	var products []entity.Product
	if s.cached(ctx, key, &products) {
		return products, nil
	}

	products, err := s.gw.ListProducts(ctx, sess.Token, page, pageSize)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}

	s.put(ctx, key, products)
	return products, nil
}

func (s *QueryService) GetProduct(ctx context.Context, sess session.Session, id entity.ProductID) (*entity.Product, error) {
	if !sess.Meets(session.StateAnonymous) {
		return nil, nil
	}

	key := cache.ProductKey(id)
	var product *entity.Product
	if s.cached(ctx, key, &product) {
		return product, nil
	}

	product, err := s.gw.GetProduct(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}

	s.put(ctx, key, product)
	return product, nil
}

func (s *QueryService) SearchProducts(ctx context.Context, sess session.Session, keyword string) ([]entity.Product, error) {
	// Пустой запрос не выдаётся вообще
	if !sess.Meets(session.StateAnonymous) || keyword == "" {
		return []entity.Product{}, nil
	}

	key := cache.SearchKey(keyword)
	var products []entity.Product
	if s.cached(ctx, key, &products) {
		return products, nil
	}

	products, err := s.gw.SearchProducts(ctx, sess.Token, keyword)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}

	s.put(ctx, key, products)
	return products, nil
}

func (s *QueryService) FilterProductsByCategory(ctx context.Context, sess session.Session, categoryID entity.CategoryID) ([]entity.Product, error) {
	if !sess.Meets(session.StateAnonymous) {
		return []entity.Product{}, nil
	}

	key := cache.CategoryFilterKey(categoryID)
	var products []entity.Product
	if s.cached(ctx, key, &products) {
		return products, nil
	}

	products, err := s.gw.FilterProductsByCategory(ctx, sess.Token, categoryID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}

	s.put(ctx, key, products)
	return products, nil
}

func (s *QueryService) GetPopularProducts(ctx context.Context, sess session.Session, limit uint64) ([]entity.Product, error) {
	if !sess.Meets(session.StateAnonymous) {
		return []entity.Product{}, nil
	}

	key := cache.PopularKey(limit)
	var products []entity.Product
	if s.cached(ctx, key, &products) {
		return products, nil
	}

	products, err := s.gw.GetPopularProducts(ctx, sess.Token, limit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}

	s.put(ctx, key, products)
	return products, nil
}

// === CATEGORIES ===

func (s *QueryService) ListCategories(ctx context.Context, sess session.Session) ([]entity.Category, error) {
	if !sess.Meets(session.StateAnonymous) {
		return []entity.Category{}, nil
	}

	key := cache.CategoriesKey()
	var categories []entity.Category
	if s.cached(ctx, key, &categories) {
		return categories, nil
	}

	categories, err := s.gw.ListCategories(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []entity.Category{}
	}

	s.put(ctx, key, categories)
	return categories, nil
}

// === CART (только для аутентифицированных) ===

func (s *QueryService) GetCart(ctx context.Context, sess session.Session) ([]entity.CartItem, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return []entity.CartItem{}, nil
	}

	key := cache.CartKey(sess.Principal)
	var items []entity.CartItem
	if s.cached(ctx, key, &items) {
		return items, nil
	}

	items, err := s.gw.GetCart(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.CartItem{}
	}

	s.put(ctx, key, items)
	return items, nil
}

func (s *QueryService) GetCartTotal(ctx context.Context, sess session.Session) (int64, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return 0, nil
	}

	key := cache.CartTotalKey(sess.Principal)
	var total int64
	if s.cached(ctx, key, &total) {
		return total, nil
	}

	total, err := s.gw.GetCartTotal(ctx, sess.Token)
	if err != nil {
		return 0, err
	}

	s.put(ctx, key, total)
	return total, nil
}

// === ORDERS ===

func (s *QueryService) GetOrderHistory(ctx context.Context, sess session.Session) ([]entity.Order, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return []entity.Order{}, nil
	}

	key := cache.OrdersKey(sess.Principal)
	var orders []entity.Order
	if s.cached(ctx, key, &orders) {
		return orders, nil
	}

	orders, err := s.gw.GetOrderHistory(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	s.put(ctx, key, orders)
	return orders, nil
}

func (s *QueryService) GetOrder(ctx context.Context, sess session.Session, id entity.OrderID) (*entity.Order, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return nil, nil
	}

	key := cache.OrderKey(sess.Principal, id)
	var order *entity.Order
	if s.cached(ctx, key, &order) {
		return order, nil
	}

	order, err := s.gw.GetOrder(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}

	s.put(ctx, key, order)
	return order, nil
}

func (s *QueryService) GetOrdersByUser(ctx context.Context, sess session.Session, user entity.Principal) ([]entity.Order, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return []entity.Order{}, nil
	}

	// Админская выборка по произвольному пользователю не кешируется:
	// обращений мало, а ключей было бы по одному на пользователя
	orders, err := s.gw.GetOrdersByUser(ctx, sess.Token, user)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

func (s *QueryService) GetAllOrders(ctx context.Context, sess session.Session) ([]entity.Order, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return []entity.Order{}, nil
	}

	key := cache.AllOrdersKey()
	var orders []entity.Order
	if s.cached(ctx, key, &orders) {
		return orders, nil
	}

	orders, err := s.gw.GetAllOrders(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	s.put(ctx, key, orders)
	return orders, nil
}

// === PROFILE / ROLES ===

func (s *QueryService) GetCallerUserProfile(ctx context.Context, sess session.Session) (*entity.UserProfile, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return nil, nil
	}

	key := cache.ProfileKey(sess.Principal)
	var profile *entity.UserProfile
	if s.cached(ctx, key, &profile) {
		return profile, nil
	}

	profile, err := s.gw.GetCallerUserProfile(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	s.put(ctx, key, profile)
	return profile, nil
}

func (s *QueryService) GetUserProfile(ctx context.Context, sess session.Session, user entity.Principal) (*entity.UserProfile, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return nil, nil
	}

	return s.gw.GetUserProfile(ctx, sess.Token, user)
}

func (s *QueryService) GetCallerUserRole(ctx context.Context, sess session.Session) (entity.UserRole, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return entity.RoleGuest, nil
	}

	key := cache.UserRoleKey(sess.Principal)
	var role entity.UserRole
	if s.cached(ctx, key, &role) {
		return role, nil
	}

	role, err := s.gw.GetCallerUserRole(ctx, sess.Token)
	if err != nil {
		return "", err
	}

	s.put(ctx, key, role)
	return role, nil
}

func (s *QueryService) IsCallerAdmin(ctx context.Context, sess session.Session) (bool, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return false, nil
	}

	key := cache.IsAdminKey(sess.Principal)
	var isAdmin bool
	if s.cached(ctx, key, &isAdmin) {
		return isAdmin, nil
	}

	isAdmin, err := s.gw.IsCallerAdmin(ctx, sess.Token)
	if err != nil {
		return false, err
	}

	s.put(ctx, key, isAdmin)
	return isAdmin, nil
}
