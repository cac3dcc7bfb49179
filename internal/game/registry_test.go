package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateRetriesTakenCodes(t *testing.T) {
	t.Parallel()
	idgen := &MockUniqueIdGenerator{}
	idgen.On("Generate").Return("aaaaaa").Once()
	idgen.On("Generate").Return("aaaaaa").Once()
	idgen.On("Generate").Return("bbbbbb").Once()
	reg := NewRegistry(idgen)

	first, err := reg.Create("alice", "Alice")
	require.NoError(t, err)
	second, err := reg.Create("bob", "Bob")
	require.NoError(t, err)

	assert.Equal(t, "aaaaaa", first.Code())
	assert.Equal(t, "bbbbbb", second.Code())
	assert.Equal(t, 2, reg.Len())
	idgen.AssertExpectations(t)
	idgen.AssertNotCalled(t, "Dispose", "aaaaaa")
}

func TestRegistry_CreateValidatesName(t *testing.T) {
	t.Parallel()
	idgen := &MockUniqueIdGenerator{}
	reg := NewRegistry(idgen)

	_, err := reg.Create("alice", " \t ")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Zero(t, reg.Len())
	idgen.AssertNotCalled(t, "Generate")
}

func TestRegistry_Join(t *testing.T) {
	t.Parallel()
	idgen := &MockUniqueIdGenerator{}
	idgen.On("Generate").Return("k3x9qa")
	reg := NewRegistry(idgen)
	room, err := reg.Create("alice", "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", room.players["alice"].Name())
	assert.Equal(t, "alice", room.HostID())

	joined, err := reg.Join(" K3X9QA ", "bob", "Bob")
	require.NoError(t, err)
	assert.Same(t, room, joined)
	assert.Equal(t, []string{"alice", "bob"}, room.turnOrder)
	assert.Zero(t, room.players["bob"].Score())

	_, err = reg.Join("k3x9qa", "bob", "Bob")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = reg.Join("nope", "carol", "Carol")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = reg.Join("k3x9qa", "carol", "")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, 2, room.PlayersCount())
}

func TestRegistry_RemovePlayer(t *testing.T) {
	t.Parallel()
	idgen := &MockUniqueIdGenerator{}
	idgen.On("Generate").Return("k3x9qa")
	idgen.On("Dispose", "k3x9qa").Return().Once()
	reg := NewRegistry(idgen)
	room, err := reg.Create("alice", "Alice")
	require.NoError(t, err)
	_, err = reg.Join(room.code, "bob", "Bob")
	require.NoError(t, err)

	timer := &fakeTimer{}
	room.deadline = deadline{timer: timer, seq: 4, kind: timerTurnDeadline}

	got, deleted := reg.RemovePlayer(room.code, "alice")
	assert.Same(t, room, got)
	assert.False(t, deleted)
	assert.Equal(t, "bob", room.HostID())
	assert.False(t, timer.stopped)

	got, deleted = reg.RemovePlayer(room.code, "ghost")
	assert.Same(t, room, got)
	assert.False(t, deleted)

	_, deleted = reg.RemovePlayer(room.code, "bob")
	assert.True(t, deleted)
	assert.True(t, timer.stopped)
	assert.Zero(t, reg.Len())

	got, deleted = reg.RemovePlayer(room.code, "bob")
	assert.Nil(t, got)
	assert.False(t, deleted)
	idgen.AssertExpectations(t)
}
