package roomstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	roomIDLength      = 8
	maxCreateAttempts = 5
)

var ErrIDExhausted = errors.New("could not generate a unique room id")

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
	ForEach(ctx context.Context, fn func(room *entity.Room) bool) error
}

// Store is the only writer of rooms. Every read-modify-write sequence runs under mu,
// so two operations on the same room never interleave. Plain reads go straight to
// the repository, which always hands out whole copies.
type Store struct {
	mu       sync.Mutex
	roomRepo roomRepo
	newID    func() string
}

func New(roomRepo roomRepo) *Store {
	return &Store{
		roomRepo: roomRepo,
		newID:    generateRoomID,
	}
}

// Get - returns a copy of the room or apperror.ErrRoomNotFound.
func (that *Store) Get(ctx context.Context, id string) (*entity.Room, error) {
	if id == "" {
		return nil, apperror.ErrRoomNotFound
	}

	room, err := that.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// Create - builds a room under a fresh unique id and stores it.
func (that *Store) Create(ctx context.Context, build func(id string) (*entity.Room, error)) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.create(ctx, build)
}

// Update - applies mutate to the stored room. When mutate fails nothing is written.
func (that *Store) Update(ctx context.Context, id string, mutate func(room *entity.Room) error) (*entity.Room, error) {
	if id == "" {
		return nil, apperror.ErrRoomNotFound
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if err = mutate(room); err != nil {
		return nil, err
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

// FindOrCreate - stores the first room that claim accepts, or a new room from build when none does.
// The scan and the write happen under one lock. created reports which path was taken.
func (that *Store) FindOrCreate(
	ctx context.Context,
	claim func(room *entity.Room) bool,
	build func(id string) (*entity.Room, error),
) (*entity.Room, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var claimed *entity.Room

	err := that.roomRepo.ForEach(ctx, func(room *entity.Room) bool {
		if claim(room) {
			claimed = room
			return false
		}

		return true
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan rooms: %w", err)
	}

	if claimed != nil {
		if err = that.roomRepo.CreateOrUpdate(ctx, claimed); err != nil {
			return nil, false, fmt.Errorf("failed to update room: %w", err)
		}

		return claimed, false, nil
	}

	room, err := that.create(ctx, build)
	if err != nil {
		return nil, false, err
	}

	return room, true, nil
}

// DeleteWhere - removes every room matching pred and returns their ids.
// On a repository error the rooms deleted so far are still returned.
func (that *Store) DeleteWhere(ctx context.Context, pred func(room *entity.Room) bool) ([]string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var ids []string

	err := that.roomRepo.ForEach(ctx, func(room *entity.Room) bool {
		if pred(room) {
			ids = append(ids, room.ID)
		}

		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rooms: %w", err)
	}

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		err = that.roomRepo.DeleteByID(ctx, id)
		if errors.Is(err, apperror.ErrRoomNotFound) {
			continue
		}

		if err != nil {
			return deleted, fmt.Errorf("failed to delete room %s: %w", id, err)
		}

		deleted = append(deleted, id)
	}

	return deleted, nil
}

// ForEach - visits a copy of every room, fn returns false to stop.
func (that *Store) ForEach(ctx context.Context, fn func(room *entity.Room) bool) error {
	if err := that.roomRepo.ForEach(ctx, fn); err != nil {
		return fmt.Errorf("failed to iterate rooms: %w", err)
	}

	return nil
}

type Stats struct {
	Total  int
	Active int
}

// Stats - counts all rooms and the rooms with at least one player.
func (that *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	err := that.ForEach(ctx, func(room *entity.Room) bool {
		stats.Total++
		if len(room.Players) > 0 {
			stats.Active++
		}

		return true
	})
	if err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func (that *Store) create(ctx context.Context, build func(id string) (*entity.Room, error)) (*entity.Room, error) {
	id, err := that.uniqueID(ctx)
	if err != nil {
		return nil, err
	}

	room, err := build(id)
	if err != nil {
		return nil, err
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

func (that *Store) uniqueID(ctx context.Context) (string, error) {
	for range maxCreateAttempts {
		id := that.newID()

		_, err := that.roomRepo.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrRoomNotFound) {
			return id, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to check room id: %w", err)
		}
	}

	return "", ErrIDExhausted
}

// generateRoomID - short opaque id, the first characters of a random UUID.
func generateRoomID() string {
	return uuid.NewString()[:roomIDLength]
}
