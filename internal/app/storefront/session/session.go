package session

import (
	"sync/atomic"

	"meadowmarket/internal/app/storefront/entity"

	"github.com/golang-jwt/jwt/v5"
)

// State - явный автомат состояний сессии.
// Каждый запрос к данным объявляет минимальное требуемое состояние;
// пока оно не достигнуто, запрос возвращает пустое значение без похода
// в gateway ("нет данных" - это не ошибка).
type State int

const (
	// StateUninitialized - gateway ещё не отвечал на ping
	StateUninitialized State = iota
	// StateAnonymous - gateway готов, личность не установлена
	StateAnonymous
	// StateAuthenticated - gateway готов и есть подтверждённый principal
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Session - состояние одного запроса пользователя
type Session struct {
	State     State
	Principal entity.Principal
	Token     string // исходный JWT, прокидывается в gateway как Bearer
}

// Meets сообщает, достигнуто ли требуемое состояние
func (s Session) Meets(required State) bool {
	return s.State >= required
}

// Claims - полезная нагрузка токена identity provider'а
type Claims struct {
	Principal string `json:"principal"`
	jwt.RegisteredClaims
}

// Manager разбирает identity JWT и отслеживает готовность gateway.
// Анонимность и "ещё не готов" - два разных состояния: до готовности
// gateway даже публичные выборки не выдаются.
type Manager struct {
	jwtSecret string
	ready     atomic.Bool
}

func NewManager(jwtSecret string) *Manager {
	return &Manager{jwtSecret: jwtSecret}
}

// SetReady помечает gateway доступным (после успешного ping при старте)
func (m *Manager) SetReady() {
	m.ready.Store(true)
}

func (m *Manager) Ready() bool {
	return m.ready.Load()
}

// FromToken строит сессию по токену запроса.
// Невалидный или пустой токен даёт анонимную сессию, не ошибку:
// каталог доступен и без личности.
func (m *Manager) FromToken(tokenString string) Session {
	if !m.Ready() {
		return Session{State: StateUninitialized}
	}

	if tokenString == "" {
		return Session{State: StateAnonymous}
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return Session{State: StateAnonymous}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Session{State: StateAnonymous}
	}

	principal := claims.Principal
	if principal == "" {
		principal = claims.Subject
	}
	if principal == "" {
		return Session{State: StateAnonymous}
	}

	return Session{
		State:     StateAuthenticated,
		Principal: principal,
		Token:     tokenString,
	}
}
