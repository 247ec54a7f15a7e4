package service

import (
	"context"
	"testing"
	"time"

	"meadowmarket/internal/app/storefront/cache"
	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/internal/app/storefront/gateway"
	"meadowmarket/internal/app/storefront/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestMutationService(gw *mocks.MockGateway) (*MutationService, *cache.MemoryStore, *StatusTracker) {
	store := cache.NewMemoryStore()
	tracker := NewStatusTracker()
	return NewMutationService(gw, store, tracker), store, tracker
}

func seedCache(t *testing.T, store *cache.MemoryStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, store.Set(context.Background(), key, []byte("cached"), time.Minute))
	}
}

func cacheHas(store *cache.MemoryStore, key string) bool {
	_, ok, _ := store.Get(context.Background(), key)
	return ok
}

// ==================== Invalidation Contract Tests ====================

func TestAddToCart_InvalidatesCartAndTotalOnly(t *testing.T) {
	// Arrange
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("alice")
	seedCache(t, store,
		cache.CartKey("alice"),
		cache.CartTotalKey("alice"),
		cache.CartKey("bob"),
		cache.ProductsKey(nil, nil),
		cache.OrdersKey("alice"),
	)

	gw.On("AddToCart", mock.Anything, sess.Token, uint64(1), int64(2)).Return(nil).Once()

	// Act
	err := svc.AddToCart(context.Background(), sess, 1, 2)

	// Assert: сбрасываются только cart и cartTotal вызвавшего
	require.NoError(t, err)
	assert.False(t, cacheHas(store, cache.CartKey("alice")))
	assert.False(t, cacheHas(store, cache.CartTotalKey("alice")))
	assert.True(t, cacheHas(store, cache.CartKey("bob")))
	assert.True(t, cacheHas(store, cache.ProductsKey(nil, nil)))
	assert.True(t, cacheHas(store, cache.OrdersKey("alice")))
	gw.AssertExpectations(t)
}

func TestCheckout_InvalidatesCartTotalsOrdersAndProducts(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("alice")
	seedCache(t, store,
		cache.CartKey("alice"),
		cache.CartTotalKey("alice"),
		cache.OrdersKey("alice"),
		cache.ProductsKey(nil, nil),
		cache.SearchKey("honey"),
		cache.CategoriesKey(),
	)

	gw.On("Checkout", mock.Anything, sess.Token, "12 Meadow Lane, Springfield").
		Return(uint64(42), nil).Once()

	orderID, err := svc.Checkout(context.Background(), sess, "12 Meadow Lane, Springfield")

	require.NoError(t, err)
	assert.Equal(t, entity.OrderID(42), orderID)
	// Checkout чистит корзину и списывает остатки: сбрасывается и каталог
	assert.False(t, cacheHas(store, cache.CartKey("alice")))
	assert.False(t, cacheHas(store, cache.CartTotalKey("alice")))
	assert.False(t, cacheHas(store, cache.OrdersKey("alice")))
	assert.False(t, cacheHas(store, cache.ProductsKey(nil, nil)))
	assert.False(t, cacheHas(store, cache.SearchKey("honey")))
	assert.True(t, cacheHas(store, cache.CategoriesKey()))
}

func TestUpdateProduct_AlsoInvalidatesDetailKey(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("admin")
	seedCache(t, store,
		cache.ProductKey(7),
		cache.ProductKey(8),
		cache.ProductsKey(nil, nil),
	)

	gw.On("UpdateProduct", mock.Anything, sess.Token, uint64(7), "Honey", "Desc", int64(1250), int64(10), uint64(1)).
		Return(nil).Once()

	err := svc.UpdateProduct(context.Background(), sess, 7, "Honey", "Desc", 1250, 10, 1)

	require.NoError(t, err)
	assert.False(t, cacheHas(store, cache.ProductKey(7)))
	assert.True(t, cacheHas(store, cache.ProductKey(8)))
	assert.False(t, cacheHas(store, cache.ProductsKey(nil, nil)))
}

func TestDeleteProduct_InvalidatesDetailKey(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("admin")
	seedCache(t, store, cache.ProductKey(7), cache.ProductsKey(nil, nil))

	gw.On("DeleteProduct", mock.Anything, sess.Token, uint64(7)).Return(nil).Once()

	err := svc.DeleteProduct(context.Background(), sess, 7)

	require.NoError(t, err)
	assert.False(t, cacheHas(store, cache.ProductKey(7)))
	assert.False(t, cacheHas(store, cache.ProductsKey(nil, nil)))
}

func TestAddCategory_InvalidatesCategories(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("admin")
	seedCache(t, store, cache.CategoriesKey(), cache.ProductsKey(nil, nil))

	gw.On("AddCategory", mock.Anything, sess.Token, "Preserves").Return(uint64(3), nil).Once()

	categoryID, err := svc.AddCategory(context.Background(), sess, "Preserves")

	require.NoError(t, err)
	assert.Equal(t, entity.CategoryID(3), categoryID)
	assert.False(t, cacheHas(store, cache.CategoriesKey()))
	assert.True(t, cacheHas(store, cache.ProductsKey(nil, nil)))
}

func TestAssignRole_InvalidatesTargetUserRoleKeys(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("admin")
	seedCache(t, store,
		cache.UserRoleKey("bob"),
		cache.IsAdminKey("bob"),
		cache.UserRoleKey("carol"),
	)

	gw.On("AssignCallerUserRole", mock.Anything, sess.Token, "bob", entity.RoleAdmin).Return(nil).Once()

	err := svc.AssignCallerUserRole(context.Background(), sess, "bob", entity.RoleAdmin)

	require.NoError(t, err)
	assert.False(t, cacheHas(store, cache.UserRoleKey("bob")))
	assert.False(t, cacheHas(store, cache.IsAdminKey("bob")))
	assert.True(t, cacheHas(store, cache.UserRoleKey("carol")))
}

func TestSaveProfile_InvalidatesProfileOnly(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("alice")
	seedCache(t, store, cache.ProfileKey("alice"), cache.ProfileKey("bob"))

	profile := entity.UserProfile{Name: "Alice"}
	gw.On("SaveCallerUserProfile", mock.Anything, sess.Token, profile).Return(nil).Once()

	err := svc.SaveCallerUserProfile(context.Background(), sess, profile)

	require.NoError(t, err)
	assert.False(t, cacheHas(store, cache.ProfileKey("alice")))
	assert.True(t, cacheHas(store, cache.ProfileKey("bob")))
}

func TestInitialize_InvalidatesProductsAndCategories(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	sess := authSession("admin")
	seedCache(t, store, cache.ProductsKey(nil, nil), cache.CategoriesKey(), cache.CartKey("alice"))

	gw.On("Initialize", mock.Anything, sess.Token).Return(nil).Once()

	err := svc.Initialize(context.Background(), sess)

	require.NoError(t, err)
	assert.False(t, cacheHas(store, cache.ProductsKey(nil, nil)))
	assert.False(t, cacheHas(store, cache.CategoriesKey()))
	assert.True(t, cacheHas(store, cache.CartKey("alice")))
}

// ==================== Failure Path Tests ====================

func TestAddToCart_FailurePreservesMessageAndCache(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, tracker := newTestMutationService(gw)
	sess := authSession("alice")
	seedCache(t, store, cache.CartKey("alice"))

	gwErr := &gateway.Error{Op: "addToCart", Status: 409, Message: "Insufficient stock"}
	gw.On("AddToCart", mock.Anything, sess.Token, uint64(1), int64(5)).Return(gwErr).Once()

	err := svc.AddToCart(context.Background(), sess, 1, 5)

	// Ошибка не глотается, кеш не инвалидируется
	require.Error(t, err)
	assert.ErrorContains(t, err, "Insufficient stock")
	assert.True(t, cacheHas(store, cache.CartKey("alice")))

	state := tracker.Get(StatusKey("alice", MutationAddToCart))
	assert.Equal(t, StatusFailed, state.Status)
	assert.Contains(t, state.Reason, "Insufficient stock")
}

func TestAddToCart_RejectsDuplicateInFlight(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, _, tracker := newTestMutationService(gw)
	sess := authSession("alice")

	// Первая мутация ещё в полёте
	require.True(t, tracker.Begin(StatusKey("alice", MutationAddToCart)))

	err := svc.AddToCart(context.Background(), sess, 1, 1)

	assert.ErrorIs(t, err, ErrMutationInFlight)
	gw.AssertNotCalled(t, "AddToCart")
}

func TestMutations_RequireAuthenticatedSession(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, _, _ := newTestMutationService(gw)
	sess := anonSession()
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddToCart(ctx, sess, 1, 1), ErrNotAuthenticated)
	assert.ErrorIs(t, svc.ClearCart(ctx, sess), ErrNotAuthenticated)
	_, err := svc.Checkout(ctx, sess, "12 Meadow Lane, Springfield")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, sess, 1), ErrNotAuthenticated)
}

// ==================== Status Tests ====================

func TestStatus_ReflectsLastOutcome(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, _, _ := newTestMutationService(gw)
	sess := authSession("alice")

	assert.Equal(t, StatusIdle, svc.Status("alice", MutationAddToCart).Status)

	gw.On("AddToCart", mock.Anything, sess.Token, uint64(1), int64(1)).Return(nil).Once()
	require.NoError(t, svc.AddToCart(context.Background(), sess, 1, 1))

	assert.Equal(t, StatusSucceeded, svc.Status("alice", MutationAddToCart).Status)
}

// ==================== Logout Tests ====================

func TestLogout_ResetsEntireCache(t *testing.T) {
	gw := new(mocks.MockGateway)
	svc, store, _ := newTestMutationService(gw)
	seedCache(t, store,
		cache.ProductsKey(nil, nil),
		cache.CartKey("alice"),
		cache.ProfileKey("bob"),
	)

	err := svc.Logout(context.Background())

	// Сброс безусловный: выпадают и публичные, и чужие записи
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
