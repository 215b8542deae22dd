package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ivanoskov/warehouse/internal/model"
)

// StateStore хранит состояние диалога пользователя между обновлениями.
// Отсутствие состояния - не ошибка: возвращается false.
type StateStore interface {
	GetState(ctx context.Context, userID int64) (*model.UserState, bool, error)
	SaveState(ctx context.Context, state *model.UserState) error
	DeleteState(ctx context.Context, userID int64) error
}

// MemoryStateStore живет столько же, сколько процесс
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[int64]model.UserState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[int64]model.UserState)}
}

func (s *MemoryStateStore) GetState(ctx context.Context, userID int64) (*model.UserState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userID]
	if !ok {
		return nil, false, nil
	}
	return &state, true, nil
}

func (s *MemoryStateStore) SaveState(ctx context.Context, state *model.UserState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state.UserID] = *state
	return nil
}

func (s *MemoryStateStore) DeleteState(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	return nil
}

const stateKeyPrefix = "warehouse:state:"

// RedisStateStore хранит состояния с ttl, брошенный диалог истекает сам
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func stateKey(userID int64) string {
	return stateKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStateStore) GetState(ctx context.Context, userID int64) (*model.UserState, bool, error) {
	data, err := s.client.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user state: %w", err)
	}

	var state model.UserState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, false, fmt.Errorf("failed to parse user state: %w", err)
	}
	return &state, true, nil
}

func (s *RedisStateStore) SaveState(ctx context.Context, state *model.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode user state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(state.UserID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save user state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) DeleteState(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete user state: %w", err)
	}
	return nil
}
