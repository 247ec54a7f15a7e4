package service

import (
	"fmt"
	"sync"
)

// Status - явное состояние мутации, которое потребляет слой представления
// вместо неявных флагов: кнопка блокируется пока её мутация pending
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type MutationState struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// StatusTracker отслеживает состояние мутаций по ключу (principal, мутация).
// Begin отказывает второму конкурентному запуску того же ключа: это
// приближение "не больше одной в полёте на контрол"; настоящая
// идемпотентность - зона ответственности backend'а.
type StatusTracker struct {
	mu     sync.Mutex
	states map[string]MutationState
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		states: make(map[string]MutationState),
	}
}

// StatusKey строит ключ состояния мутации для одного пользователя
func StatusKey(principal, mutation string) string {
	return fmt.Sprintf("%s:%s", principal, mutation)
}

// Begin переводит мутацию в pending; false, если она уже в полёте
func (t *StatusTracker) Begin(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.states[key].Status == StatusPending {
		return false
	}
	t.states[key] = MutationState{Status: StatusPending}
	return true
}

func (t *StatusTracker) Succeed(key string) {
	t.mu.Lock()
	t.states[key] = MutationState{Status: StatusSucceeded}
	t.mu.Unlock()
}

func (t *StatusTracker) Fail(key, reason string) {
	t.mu.Lock()
	t.states[key] = MutationState{Status: StatusFailed, Reason: reason}
	t.mu.Unlock()
}

// Get возвращает состояние мутации; неизвестный ключ - idle
func (t *StatusTracker) Get(key string) MutationState {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[key]
	if !ok {
		return MutationState{Status: StatusIdle}
	}
	return state
}
