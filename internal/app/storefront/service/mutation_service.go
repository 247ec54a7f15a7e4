package service

import (
	"context"
	"errors"

	"meadowmarket/internal/app/storefront/cache"
	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/internal/app/storefront/session"
	"meadowmarket/pkg/logger"
	"meadowmarket/pkg/metrics"
)

// ErrMutationInFlight - та же мутация этого пользователя ещё не завершилась
var ErrMutationInFlight = errors.New("mutation already in progress")

// ErrNotAuthenticated - мутация требует аутентифицированную сессию
var ErrNotAuthenticated = errors.New("authentication required")

// Имена мутаций (они же ключи статус-трекера)
const (
	MutationAddToCart          = "addToCart"
	MutationRemoveFromCart     = "removeFromCart"
	MutationUpdateCartQuantity = "updateCartQuantity"
	MutationClearCart          = "clearCart"
	MutationCheckout           = "checkout"
	MutationAddProduct         = "addProduct"
	MutationUpdateProduct      = "updateProduct"
	MutationDeleteProduct      = "deleteProduct"
	MutationAddCategory        = "addCategory"
	MutationSaveProfile        = "saveCallerUserProfile"
	MutationAssignRole         = "assignCallerUserRole"
	MutationInitialize         = "initialize"
)

// Каждая мутация объявляет семейства ключей, которые она инвалидирует.
// Инвалидация выполняется только после успешного ответа gateway.
var invalidationTable = map[string][]string{
	MutationAddToCart:          {cache.FamilyCart, cache.FamilyCartTotal},
	MutationRemoveFromCart:     {cache.FamilyCart, cache.FamilyCartTotal},
	MutationUpdateCartQuantity: {cache.FamilyCart, cache.FamilyCartTotal},
	MutationClearCart:          {cache.FamilyCart, cache.FamilyCartTotal},
	MutationCheckout:           {cache.FamilyCart, cache.FamilyCartTotal, cache.FamilyOrders, cache.FamilyProducts},
	MutationAddProduct:         {cache.FamilyProducts},
	MutationUpdateProduct:      {cache.FamilyProducts},
	MutationDeleteProduct:      {cache.FamilyProducts},
	MutationAddCategory:        {cache.FamilyCategories},
	MutationSaveProfile:        {cache.FamilyProfile},
	MutationAssignRole:         {cache.FamilyUserRole, cache.FamilyIsAdmin},
	MutationInitialize:         {cache.FamilyProducts, cache.FamilyCategories},
}

// Семейства, привязанные к личности: их префикс сужается до principal вызвавшего
var identityScoped = map[string]bool{
	cache.FamilyCart:      true,
	cache.FamilyCartTotal: true,
	cache.FamilyOrders:    true,
	cache.FamilyOrder:     true,
	cache.FamilyProfile:   true,
	cache.FamilyUserRole:  true,
	cache.FamilyIsAdmin:   true,
}

// MutationService выполняет мутации по контракту:
// вызов gateway -> ожидание завершения -> при успехе инвалидация
// объявленных ключей. Зависимые выборки перечитываются при следующем
// обращении в произвольном порядке.
type MutationService struct {
	gw      Gateway
	store   cache.Store
	tracker *StatusTracker
}

func NewMutationService(gw Gateway, store cache.Store, tracker *StatusTracker) *MutationService {
	return &MutationService{
		gw:      gw,
		store:   store,
		tracker: tracker,
	}
}

// Status возвращает состояние мутации для слоя представления
func (m *MutationService) Status(principal entity.Principal, mutation string) MutationState {
	return m.tracker.Get(StatusKey(principal, mutation))
}

// run оборачивает вызов мутации: статус-трекинг, инвалидация, метрики.
// Ошибка gateway никогда не глотается - она уходит вызывающему с
// сохранённым сообщением backend'а.
func (m *MutationService) run(ctx context.Context, sess session.Session, name string, extraPrefixes []string, call func() error) error {
	key := StatusKey(sess.Principal, name)
	if !m.tracker.Begin(key) {
		metrics.RecordMutation(serviceName, name, "rejected_duplicate")
		return ErrMutationInFlight
	}

	if err := call(); err != nil {
		m.tracker.Fail(key, err.Error())
		metrics.RecordMutation(serviceName, name, "failed")
		return err
	}

	m.invalidate(ctx, sess.Principal, name, extraPrefixes)
	m.tracker.Succeed(key)
	metrics.RecordMutation(serviceName, name, "succeeded")
	return nil
}

// invalidate сбрасывает объявленные ключи. Мутация уже применена
// backend'ом, поэтому проблема кеша логируется, но не возвращается
// как ошибка мутации.
func (m *MutationService) invalidate(ctx context.Context, principal entity.Principal, name string, extraPrefixes []string) {
	prefixes := make([]string, 0, len(invalidationTable[name])+len(extraPrefixes))
	for _, family := range invalidationTable[name] {
		if identityScoped[family] {
			prefixes = append(prefixes, cache.Scoped(family, principal))
		} else {
			prefixes = append(prefixes, family)
		}
		metrics.RecordCacheInvalidation(serviceName, family)
	}
	prefixes = append(prefixes, extraPrefixes...)

	if err := m.store.Invalidate(ctx, prefixes...); err != nil {
		logger.Error().Err(err).Str("mutation", name).Msg("failed to invalidate cache")
	}
}

// === CART ===

func (m *MutationService) AddToCart(ctx context.Context, sess session.Session, productID entity.ProductID, quantity int64) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationAddToCart, nil, func() error {
		return m.gw.AddToCart(ctx, sess.Token, productID, quantity)
	})
}

func (m *MutationService) RemoveFromCart(ctx context.Context, sess session.Session, productID entity.ProductID) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationRemoveFromCart, nil, func() error {
		return m.gw.RemoveFromCart(ctx, sess.Token, productID)
	})
}

func (m *MutationService) UpdateCartQuantity(ctx context.Context, sess session.Session, productID entity.ProductID, quantity int64) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationUpdateCartQuantity, nil, func() error {
		return m.gw.UpdateCartQuantity(ctx, sess.Token, productID, quantity)
	})
}

func (m *MutationService) ClearCart(ctx context.Context, sess session.Session) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationClearCart, nil, func() error {
		return m.gw.ClearCart(ctx, sess.Token)
	})
}

// === CHECKOUT ===

// Checkout создаёт заказ из текущей корзины; backend попутно чистит
// корзину и списывает остатки, поэтому инвалидируются и products
func (m *MutationService) Checkout(ctx context.Context, sess session.Session, address string) (entity.OrderID, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return 0, ErrNotAuthenticated
	}

	var orderID entity.OrderID
	err := m.run(ctx, sess, MutationCheckout, nil, func() error {
		var callErr error
		orderID, callErr = m.gw.Checkout(ctx, sess.Token, address)
		return callErr
	})
	if err != nil {
		return 0, err
	}

	metrics.CheckoutsTotal.Inc()
	return orderID, nil
}

// === CATALOG (админ) ===

func (m *MutationService) AddProduct(ctx context.Context, sess session.Session, title, description string, price, stock int64, categoryID entity.CategoryID) (entity.ProductID, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return 0, ErrNotAuthenticated
	}

	var productID entity.ProductID
	err := m.run(ctx, sess, MutationAddProduct, nil, func() error {
		var callErr error
		productID, callErr = m.gw.AddProduct(ctx, sess.Token, title, description, price, stock, categoryID)
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return productID, nil
}

// UpdateProduct дополнительно сбрасывает ключ карточки товара
func (m *MutationService) UpdateProduct(ctx context.Context, sess session.Session, id entity.ProductID, title, description string, price, stock int64, categoryID entity.CategoryID) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationUpdateProduct, []string{cache.ProductKey(id)}, func() error {
		return m.gw.UpdateProduct(ctx, sess.Token, id, title, description, price, stock, categoryID)
	})
}

// DeleteProduct тоже сбрасывает ключ карточки: закешированная карточка
// удалённого товара - это ровно тот stale reference, который потом
// пришлось бы молча выбрасывать
func (m *MutationService) DeleteProduct(ctx context.Context, sess session.Session, id entity.ProductID) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationDeleteProduct, []string{cache.ProductKey(id)}, func() error {
		return m.gw.DeleteProduct(ctx, sess.Token, id)
	})
}

func (m *MutationService) AddCategory(ctx context.Context, sess session.Session, name string) (entity.CategoryID, error) {
	if !sess.Meets(session.StateAuthenticated) {
		return 0, ErrNotAuthenticated
	}

	var categoryID entity.CategoryID
	err := m.run(ctx, sess, MutationAddCategory, nil, func() error {
		var callErr error
		categoryID, callErr = m.gw.AddCategory(ctx, sess.Token, name)
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return categoryID, nil
}

// === PROFILE / ROLES ===

func (m *MutationService) SaveCallerUserProfile(ctx context.Context, sess session.Session, profile entity.UserProfile) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationSaveProfile, nil, func() error {
		return m.gw.SaveCallerUserProfile(ctx, sess.Token, profile)
	})
}

// AssignCallerUserRole сбрасывает кеш роли назначаемого пользователя:
// свежеповышенный админ не должен ходить с закешированным isAdmin=false
func (m *MutationService) AssignCallerUserRole(ctx context.Context, sess session.Session, user entity.Principal, role entity.UserRole) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	extra := []string{
		cache.Scoped(cache.FamilyUserRole, user),
		cache.Scoped(cache.FamilyIsAdmin, user),
	}
	return m.run(ctx, sess, MutationAssignRole, extra, func() error {
		return m.gw.AssignCallerUserRole(ctx, sess.Token, user, role)
	})
}

// === SEED ===

func (m *MutationService) Initialize(ctx context.Context, sess session.Session) error {
	if !sess.Meets(session.StateAuthenticated) {
		return ErrNotAuthenticated
	}
	return m.run(ctx, sess, MutationInitialize, nil, func() error {
		return m.gw.Initialize(ctx, sess.Token)
	})
}

// === LOGOUT ===

// Logout сбрасывает весь кеш безусловно: закешированные данные могут
// быть привязаны к личности, частичное сохранение не допускается
func (m *MutationService) Logout(ctx context.Context) error {
	if err := m.store.Reset(ctx); err != nil {
		return err
	}
	metrics.CacheResets.Inc()
	return nil
}
