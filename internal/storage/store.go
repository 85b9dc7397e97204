// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is wrapped by every lookup that finds no record.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group with its members.
	// The group.ID and CreatedAt fields will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its members by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup renames a group and changes its base currency.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group with all its members, expenses and payments.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers adds members to an existing group.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Member) error

	// CreateExpense persists a new expense and its split.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves all expenses of a group, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreatePayment persists a new payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// ListPaymentsByGroup retrieves all payments of a group, newest first.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// DeletePayment removes a payment by ID.
	DeletePayment(ctx context.Context, paymentID string) error

	// CreateUser, GetUserByEmail and GetUserByID back password authentication.
	// The user lookups return nil, nil when no user matches.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
