package connectfour

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

func newTwoPlayerRoom(t *testing.T) *entity.Room {
	t.Helper()

	room, err := NewRoom("r1", "alice", time.Now())
	require.NoError(t, err)
	require.NoError(t, Join(room, "bob"))

	return room
}

func TestNewRoom(t *testing.T) {
	t.Run("Opens a room for the player", func(t *testing.T) {
		room, err := NewRoom("r1", "alice", time.Now())

		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, room.Players)
		assert.Equal(t, map[string]bool{"alice": false}, room.Ready)
		assert.Equal(t, entity.Board{}, room.Board)
		assert.Equal(t, 0, room.Turn)
		assert.Empty(t, room.Winner)
	})

	t.Run("Rejects an empty player", func(t *testing.T) {
		room, err := NewRoom("r1", "", time.Now())

		require.ErrorIs(t, err, apperror.ErrInvalidRequest)
		assert.Nil(t, room)
	})
}

func TestJoin(t *testing.T) {
	t.Run("Second player takes the second seat not ready", func(t *testing.T) {
		room := newTwoPlayerRoom(t)

		assert.Equal(t, []string{"alice", "bob"}, room.Players)
		assert.Equal(t, map[string]bool{"alice": false, "bob": false}, room.Ready)
	})

	t.Run("Third player is rejected with ErrRoomFull", func(t *testing.T) {
		room := newTwoPlayerRoom(t)

		err := Join(room, "carol")

		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Len(t, room.Players, 2)
		assert.NotContains(t, room.Ready, "carol")
	})

	t.Run("Same player cannot join twice", func(t *testing.T) {
		room, err := NewRoom("r1", "alice", time.Now())
		require.NoError(t, err)

		err = Join(room, "alice")

		require.ErrorIs(t, err, apperror.ErrAlreadyJoined)
		assert.Equal(t, []string{"alice"}, room.Players)
	})
}

func TestSetReady(t *testing.T) {
	t.Run("Reports all ready only after both players", func(t *testing.T) {
		room := newTwoPlayerRoom(t)

		allReady, err := SetReady(room, "alice")
		require.NoError(t, err)
		assert.False(t, allReady)

		allReady, err = SetReady(room, "bob")
		require.NoError(t, err)
		assert.True(t, allReady)
	})

	t.Run("Single ready player is not all ready", func(t *testing.T) {
		room, err := NewRoom("r1", "alice", time.Now())
		require.NoError(t, err)

		allReady, err := SetReady(room, "alice")

		require.NoError(t, err)
		assert.False(t, allReady)
		assert.True(t, room.Ready["alice"])
	})

	t.Run("Stranger is rejected with ErrInvalidRequest", func(t *testing.T) {
		room := newTwoPlayerRoom(t)

		_, err := SetReady(room, "carol")

		require.ErrorIs(t, err, apperror.ErrInvalidRequest)
		assert.NotContains(t, room.Ready, "carol")
	})
}

func TestMakeMove(t *testing.T) {
	t.Run("Piece falls to the lowest empty row and turn flips", func(t *testing.T) {
		// Given: a fresh two player room
		room := newTwoPlayerRoom(t)

		// When: alice drops into column 3
		winner, err := MakeMove(room, "alice", 3)

		// Then: the bottom cell holds alice's mark and it is bob's turn
		require.NoError(t, err)
		assert.Empty(t, winner)
		assert.Equal(t, entity.FirstMark, room.Board[5][3])
		assert.Equal(t, 1, room.Turn)

		// When: bob drops into the same column
		_, err = MakeMove(room, "bob", 3)

		// Then: his piece stacks on top and the turn returns to alice
		require.NoError(t, err)
		assert.Equal(t, entity.SecondMark, room.Board[4][3])
		assert.Equal(t, 0, room.Turn)
	})

	t.Run("Out of turn move leaves the room unchanged", func(t *testing.T) {
		room := newTwoPlayerRoom(t)
		before := room.Clone()

		_, err := MakeMove(room, "bob", 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, before, room)
	})

	t.Run("Stranger gets ErrNotInRoom", func(t *testing.T) {
		room := newTwoPlayerRoom(t)

		_, err := MakeMove(room, "carol", 0)

		require.ErrorIs(t, err, apperror.ErrNotInRoom)
	})

	t.Run("Columns outside the board are rejected", func(t *testing.T) {
		room := newTwoPlayerRoom(t)

		for _, column := range []int{-1, entity.Columns, 42} {
			_, err := MakeMove(room, "alice", column)

			require.ErrorIs(t, err, apperror.ErrInvalidColumn)
		}

		assert.Equal(t, entity.Board{}, room.Board)
		assert.Equal(t, 0, room.Turn)
	})

	t.Run("Full column is rejected without changing the turn", func(t *testing.T) {
		room := newTwoPlayerRoom(t)
		players := []string{"alice", "bob"}
		for i := 0; i < entity.Rows; i++ {
			_, err := MakeMove(room, players[i%2], 0)
			require.NoError(t, err)
		}
		before := room.Clone()

		_, err := MakeMove(room, "alice", 0)

		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, before, room)
	})

	t.Run("Winning move sets the winner and keeps the turn", func(t *testing.T) {
		// Given: alice has three stacked in column 3, bob three in column 4
		room := newTwoPlayerRoom(t)
		for i := 0; i < 3; i++ {
			_, err := MakeMove(room, "alice", 3)
			require.NoError(t, err)
			_, err = MakeMove(room, "bob", 4)
			require.NoError(t, err)
		}

		// When: alice drops her fourth piece in column 3
		winner, err := MakeMove(room, "alice", 3)

		// Then: she wins and the turn does not flip
		require.NoError(t, err)
		assert.Equal(t, "alice", winner)
		assert.Equal(t, "alice", room.Winner)
		assert.Equal(t, 0, room.Turn)

		// And: every later move fails with ErrGameOver leaving the board unchanged
		board := room.Board
		_, err = MakeMove(room, "bob", 4)
		require.ErrorIs(t, err, apperror.ErrGameOver)
		_, err = MakeMove(room, "alice", 0)
		require.ErrorIs(t, err, apperror.ErrGameOver)
		assert.Equal(t, board, room.Board)
		assert.Equal(t, "alice", room.Winner)
	})

	t.Run("Game over is checked before membership", func(t *testing.T) {
		room := newTwoPlayerRoom(t)
		room.Winner = "alice"

		_, err := MakeMove(room, "carol", 9)

		require.ErrorIs(t, err, apperror.ErrGameOver)
	})
}
