package service

import (
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// storageError maps a store failure to a Connect error.
func storageError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// validAmount reports whether v is acceptable as an entered amount.
func validAmount(v float64) bool {
	return money.InRange(v)
}

// validConverted reports whether a base-currency amount can be stored.
func validConverted(v float64) bool {
	return v >= 0 && money.Finite(v)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// normalizeMembers fills in missing IDs or names from each other and rejects
// blanks and duplicates.
func normalizeMembers(in []api.Member) ([]models.Member, error) {
	seen := make(map[string]bool, len(in))
	out := make([]models.Member, 0, len(in))
	for _, m := range in {
		id := strings.TrimSpace(m.ID)
		name := strings.TrimSpace(m.Name)
		if id == "" {
			id = name
		}
		if name == "" {
			name = id
		}
		if id == "" {
			return nil, fmt.Errorf("member id or name required")
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate member %q", id)
		}
		seen[id] = true
		out = append(out, models.Member{ID: id, Name: name})
	}
	return out, nil
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = api.Member{ID: m.ID, Name: m.Name}
	}
	return &api.Group{
		ID:           g.ID,
		Name:         g.Name,
		BaseCurrency: g.BaseCurrency,
		Members:      members,
		CreatedAt:    g.CreatedAt,
		CreatedBy:    g.CreatedBy,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		BaseAmount:  e.BaseAmount,
		PaidBy:      e.PaidBy,
		PaidTo:      e.PaidTo,
		Type:        e.Type,
		Split: api.Split{
			Kind:    e.Split.Kind,
			Members: e.Split.Members,
			Shares:  e.Split.Shares,
		},
		CreatedAt: e.CreatedAt,
		CreatedBy: e.CreatedBy,
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:         p.ID,
		GroupID:    p.GroupID,
		Amount:     p.Amount,
		Currency:   p.Currency,
		BaseAmount: p.BaseAmount,
		PaidBy:     p.PaidBy,
		PaidTo:     p.PaidTo,
		Note:       p.Note,
		CreatedAt:  p.CreatedAt,
		CreatedBy:  p.CreatedBy,
	}
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// toLedger converts stored records into the calculator's input.
func toLedger(group *models.Group, expenses []*models.Expense, payments []*models.Payment) calculator.Ledger {
	ledger := calculator.Ledger{
		Members:  make(map[string]calculator.Member, len(group.Members)),
		Expenses: make(map[string]calculator.Expense, len(expenses)),
		Payments: make(map[string]calculator.Payment, len(payments)),
	}
	for _, m := range group.Members {
		ledger.Members[m.ID] = calculator.Member{Name: m.Name}
	}
	for _, e := range expenses {
		ledger.Expenses[e.ID] = calculator.Expense{
			Amount:     e.Amount,
			BaseAmount: e.BaseAmount,
			PaidBy:     e.PaidBy,
			PaidTo:     e.PaidTo,
			Type:       e.Type,
			Split:      toCalculatorSplit(e.Split),
		}
	}
	for _, p := range payments {
		ledger.Payments[p.ID] = calculator.Payment{
			Amount:     p.Amount,
			BaseAmount: p.BaseAmount,
			PaidBy:     p.PaidBy,
			PaidTo:     p.PaidTo,
		}
	}
	return ledger
}

func toCalculatorSplit(s models.ExpenseSplit) calculator.Split {
	switch s.Kind {
	case models.SplitEqualSubset:
		return calculator.EqualSubset{Members: s.Members}
	case models.SplitCustom:
		return calculator.CustomShares{Shares: s.Shares}
	default:
		return calculator.EqualAll{}
	}
}
