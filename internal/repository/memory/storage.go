// Package memory implements repository.Storage on in-process maps.
//
// It mirrors the guard semantics of the postgres implementation (no
// overdraft, one-shot review, frozen terminal order statuses) so service
// tests can substitute it for a real database. Each repository operation
// takes the storage mutex on its own; InTx just runs fn against the same
// storage without opening any transaction, so a failed fn leaves mutations
// it already made in place. Fine for tests, but the fake is not a
// rollback-accurate database.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/repository"
)

type Storage struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	transactions map[uuid.UUID]*models.Transaction
	orders       map[uuid.UUID]*models.Order

	// creation order, newest-first listings walk these backwards
	transactionSeq []uuid.UUID
	orderSeq       []uuid.UUID
}

func NewStorage() *Storage {
	return &Storage{
		users:        map[uuid.UUID]*models.User{},
		transactions: map[uuid.UUID]*models.Transaction{},
		orders:       map[uuid.UUID]*models.Order{},
	}
}

func (s *Storage) User() repository.UserRepo {
	return &userRepo{s: s}
}

func (s *Storage) Transaction() repository.TransactionRepo {
	return &transactionRepo{s: s}
}

func (s *Storage) Order() repository.OrderRepo {
	return &orderRepo{s: s}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	return fn(s)
}
