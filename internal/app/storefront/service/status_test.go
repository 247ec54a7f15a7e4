package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==================== StatusTracker Tests ====================

func TestStatusTracker_UnknownKeyIsIdle(t *testing.T) {
	tracker := NewStatusTracker()

	state := tracker.Get(StatusKey("alice", MutationAddToCart))

	assert.Equal(t, StatusIdle, state.Status)
	assert.Empty(t, state.Reason)
}

func TestStatusTracker_Lifecycle(t *testing.T) {
	tracker := NewStatusTracker()
	key := StatusKey("alice", MutationCheckout)

	assert.True(t, tracker.Begin(key))
	assert.Equal(t, StatusPending, tracker.Get(key).Status)

	tracker.Succeed(key)
	assert.Equal(t, StatusSucceeded, tracker.Get(key).Status)
}

func TestStatusTracker_BeginRefusesDuplicate(t *testing.T) {
	tracker := NewStatusTracker()
	key := StatusKey("alice", MutationAddToCart)

	assert.True(t, tracker.Begin(key))
	// Повторный запуск той же мутации того же пользователя отклоняется
	assert.False(t, tracker.Begin(key))
}

func TestStatusTracker_KeysAreIndependent(t *testing.T) {
	tracker := NewStatusTracker()

	assert.True(t, tracker.Begin(StatusKey("alice", MutationAddToCart)))
	// Другой пользователь и другая мутация не блокируются
	assert.True(t, tracker.Begin(StatusKey("bob", MutationAddToCart)))
	assert.True(t, tracker.Begin(StatusKey("alice", MutationClearCart)))
}

func TestStatusTracker_FailKeepsReason(t *testing.T) {
	tracker := NewStatusTracker()
	key := StatusKey("alice", MutationCheckout)

	tracker.Begin(key)
	tracker.Fail(key, "Insufficient stock for product 5")

	state := tracker.Get(key)
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, "Insufficient stock for product 5", state.Reason)
}

func TestStatusTracker_BeginAfterCompletion(t *testing.T) {
	tracker := NewStatusTracker()
	key := StatusKey("alice", MutationAddToCart)

	tracker.Begin(key)
	tracker.Succeed(key)

	// Завершённая мутация может быть запущена снова
	assert.True(t, tracker.Begin(key))
}
