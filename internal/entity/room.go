package entity

import (
	"time"
)

const (
	Rows    = 6
	Columns = 7

	MaxPlayers = 2
)

// Mark is the content of a board cell.
type Mark int

const (
	Empty Mark = iota
	FirstMark
	SecondMark
)

// Board is indexed as [row][column], row 0 is the top.
type Board [Rows][Columns]Mark

type Room struct {
	ID        string          `json:"id"`
	Players   []string        `json:"players"`
	Ready     map[string]bool `json:"ready"`
	Board     Board           `json:"board"`
	Turn      int             `json:"turn"`
	Winner    string          `json:"winner"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewRoom(id, player string, createdAt time.Time) *Room {
	return &Room{
		ID:        id,
		Players:   []string{player},
		Ready:     map[string]bool{player: false},
		Turn:      0,
		CreatedAt: createdAt.UTC(),
	}
}

// MarkForSeat - returns the mark placed by the player sitting at seat.
func MarkForSeat(seat int) Mark {
	return Mark(seat + 1)
}

// Seat - returns the index of player in the room, which is also its turn number.
func (that *Room) Seat(player string) (int, bool) {
	for i, p := range that.Players {
		if p == player {
			return i, true
		}
	}

	return -1, false
}

func (that *Room) HasPlayer(player string) bool {
	_, ok := that.Seat(player)
	return ok
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) IsFinished() bool {
	return that.Winner != ""
}

// AllReady - both seats are taken and both players are ready.
func (that *Room) AllReady() bool {
	if !that.IsFull() {
		return false
	}

	for _, player := range that.Players {
		if !that.Ready[player] {
			return false
		}
	}

	return true
}

func (that *Room) Clone() *Room {
	clone := *that

	clone.Players = append([]string(nil), that.Players...)
	clone.Ready = make(map[string]bool, len(that.Ready))
	for player, ready := range that.Ready {
		clone.Ready[player] = ready
	}

	return &clone
}
