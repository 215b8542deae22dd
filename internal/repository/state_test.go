package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *model.UserState {
	return &model.UserState{
		UserID:           7,
		SelectedCategory: "Hardware",
		AwaitingAction:   "new_product",
		UpdatedAt:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStateStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	_, ok, err := store.GetState(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveState(ctx, sampleState()))
	state, ok, err := store.GetState(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleState(), state)

	// возвращается копия
	state.SelectedCategory = "Tools"
	again, _, _ := store.GetState(ctx, 7)
	assert.Equal(t, "Hardware", again.SelectedCategory)

	require.NoError(t, store.DeleteState(ctx, 7))
	_, ok, err = store.GetState(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStateStore(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := NewRedisStateStore(client, time.Hour)

	payload, err := json.Marshal(sampleState())
	require.NoError(t, err)

	mock.ExpectGet("warehouse:state:7").RedisNil()
	_, ok, err := store.GetState(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSet("warehouse:state:7", string(payload), time.Hour).SetVal("OK")
	require.NoError(t, store.SaveState(ctx, sampleState()))

	mock.ExpectGet("warehouse:state:7").SetVal(string(payload))
	state, ok, err := store.GetState(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Hardware", state.SelectedCategory)
	assert.True(t, sampleState().UpdatedAt.Equal(state.UpdatedAt))

	mock.ExpectGet("warehouse:state:7").SetErr(errors.New("connection refused"))
	_, _, err = store.GetState(ctx, 7)
	assert.Error(t, err)

	mock.ExpectDel("warehouse:state:7").SetVal(1)
	require.NoError(t, store.DeleteState(ctx, 7))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeUserState(t *testing.T) {
	for _, payload := range []string{"", "[]"} {
		_, ok, err := decodeUserState([]byte(payload))
		require.NoError(t, err, payload)
		assert.False(t, ok, payload)
	}

	state, ok, err := decodeUserState([]byte(`[{"user_id":7,"selected_category":"Tools","awaiting_action":"new_product","updated_at":"2024-01-01T12:00:00Z"}]`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), state.UserID)
	assert.Equal(t, "Tools", state.SelectedCategory)

	_, _, err = decodeUserState([]byte(`{"message":"relation does not exist"}`))
	assert.Error(t, err)
}
