package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/currency"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/metrics"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store     storage.Store
	converter *currency.Converter
	metrics   *metrics.Manager
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
// m may be nil.
func NewGroupService(store storage.Store, converter *currency.Converter, m *metrics.Manager) *GroupService {
	return &GroupService{store: store, converter: converter, metrics: m}
}

// baseCurrency resolves the requested base currency of a group. Amounts are
// normalized with one rate table, so only its reference currency is accepted.
func (s *GroupService) baseCurrency(code string) (string, error) {
	code = normalizeCode(code)
	if code == "" {
		return s.converter.Base(), nil
	}
	if code != s.converter.Base() {
		return "", fmt.Errorf("base_currency must be %s", s.converter.Base())
	}
	return code, nil
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}
	members, err := normalizeMembers(req.Msg.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	base, err := s.baseCurrency(req.Msg.BaseCurrency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	group := &models.Group{
		Name:         name,
		BaseCurrency: base,
		Members:      members,
		CreatedBy:    middleware.GetUserID(ctx),
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storageError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// UpdateGroup renames a group. Members are added with AddMembers.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if req.Msg.GroupID == "" || name == "" {
		return nil, invalidArgument("group_id and name required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storageError(err)
	}

	group.Name = name
	if req.Msg.BaseCurrency != "" {
		base, err := s.baseCurrency(req.Msg.BaseCurrency)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		group.BaseCurrency = base
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group with all its expenses and payments.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMembers appends members to a group. Members already present are left alone.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	slog.Info("AddMembers request received",
		"group_id", req.Msg.GroupID,
		"members_count", len(req.Msg.Members),
	)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	members, err := normalizeMembers(req.Msg.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if len(members) == 0 {
		return nil, invalidArgument("at least one member required")
	}

	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, members); err != nil {
		slog.Error("AddMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.AddMembersResponse{Group: toAPIGroup(group)}), nil
}

// GetGroupBalances computes every member's net balance, the transfers that settle
// them, and the group's total spending.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - group not found", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not list expenses", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not list payments", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	ledger := toLedger(group, expenses, payments)
	balances, err := calculator.CalculateBalances(ledger)
	if err != nil {
		slog.Error("GetGroupBalances failed - calculation error", "group_id", groupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	transfers := calculator.CalculateTransfers(balances)
	s.metrics.ObserveSettlement(len(transfers))

	// Members keep the group's order
	apiBalances := make([]api.MemberBalance, len(group.Members))
	for i, m := range group.Members {
		apiBalances[i] = api.MemberBalance{MemberID: m.ID, Name: m.Name, Balance: balances[m.ID]}
	}

	apiTransfers := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		apiTransfers[i] = api.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"payments_count", len(payments),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		BaseCurrency: group.BaseCurrency,
		Balances:     apiBalances,
		Transfers:    apiTransfers,
		TotalSpent:   calculator.TotalSpent(ledger.Expenses),
	}), nil
}
