package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// memoryRoom keeps rooms in process. Rooms are copied on the way in and out,
// so callers never share a Room with the table.
type memoryRoom struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(map[string]*entity.Room),
	}
}

func (that *memoryRoom) CreateOrUpdate(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.ID] = room.Clone()

	return nil
}

func (that *memoryRoom) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (that *memoryRoom) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[id]; !ok {
		return apperror.ErrRoomNotFound
	}

	delete(that.rooms, id)

	return nil
}

// ForEach - iterates over a snapshot taken under the read lock, fn may call back into the repository.
func (that *memoryRoom) ForEach(ctx context.Context, fn func(room *entity.Room) bool) error {
	that.mu.RLock()
	snapshot := make([]*entity.Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		snapshot = append(snapshot, room.Clone())
	}
	that.mu.RUnlock()

	for _, room := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !fn(room) {
			return nil
		}
	}

	return nil
}
