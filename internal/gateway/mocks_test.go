package gateway

import (
	"context"

	"github.com/G17aurav/Word-Guess/internal/game"
	"github.com/stretchr/testify/mock"
)

// --- WebsocketConnection ---

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close(reason string) {
	m.Called(reason)
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- Dispatcher ---

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Submit(ctx context.Context, a game.Action) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockDispatcher) Lookup(ctx context.Context, code string) (game.RoomPreview, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(game.RoomPreview), args.Error(1)
}
