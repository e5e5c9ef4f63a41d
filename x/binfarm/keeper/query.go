package keeper

import (
	"context"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the binfarm QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Config returns the protocol config
func (qs queryServer) Config(ctx context.Context, _ *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	cfg, err := qs.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryConfigResponse{Config: cfg}, nil
}

// Params returns the module params
func (qs queryServer) Params(ctx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := qs.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Position returns a position and its vault
func (qs queryServer) Position(ctx context.Context, req *types.QueryPositionRequest) (*types.QueryPositionResponse, error) {
	if req == nil || req.PositionRef == "" {
		return nil, errors.Wrap(types.ErrPositionNotFound, "empty request")
	}
	pos, err := qs.GetPosition(ctx, req.PositionRef)
	if err != nil {
		return nil, err
	}
	vault, err := qs.GetVault(ctx, req.PositionRef)
	if err != nil {
		return nil, err
	}
	return &types.QueryPositionResponse{Position: pos, Vault: vault}, nil
}

// PositionsByOwner lists the positions of an owner
func (qs queryServer) PositionsByOwner(ctx context.Context, req *types.QueryPositionsByOwnerRequest) (*types.QueryPositionsByOwnerResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidAddress, "empty request")
	}
	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, errors.Wrap(types.ErrInvalidAddress, err.Error())
	}
	positions, err := qs.GetPositionsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &types.QueryPositionsByOwnerResponse{Positions: positions}, nil
}

// VaultBalances returns the live balances held by a position's vault
func (qs queryServer) VaultBalances(ctx context.Context, req *types.QueryVaultBalancesRequest) (*types.QueryVaultBalancesResponse, error) {
	if req == nil || req.PositionRef == "" {
		return nil, errors.Wrap(types.ErrPositionNotFound, "empty request")
	}
	vault, err := qs.GetVault(ctx, req.PositionRef)
	if err != nil {
		return nil, err
	}
	x, y := qs.vaultBalances(ctx, vault)
	return &types.QueryVaultBalancesResponse{Vault: vault.Address.String(), AmountX: x, AmountY: y}, nil
}

// RoverAuthority returns the rover authority singleton
func (qs queryServer) RoverAuthority(ctx context.Context, _ *types.QueryRoverAuthorityRequest) (*types.QueryRoverAuthorityResponse, error) {
	rover, err := qs.GetRoverAuthority(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryRoverAuthorityResponse{RoverAuthority: rover}, nil
}

// PendingChanges lists every queued timelocked change
func (qs queryServer) PendingChanges(ctx context.Context, _ *types.QueryPendingChangesRequest) (*types.QueryPendingChangesResponse, error) {
	cfg, err := qs.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	rover, err := qs.GetRoverAuthority(ctx)
	if err != nil {
		return nil, err
	}

	resp := &types.QueryPendingChangesResponse{
		PendingFeeBps:             cfg.PendingFeeBps,
		FeeEffectiveAt:            cfg.FeeEffectiveAt,
		RevenueDestChangeAt:       rover.RevenueDestChangeAt,
		EmergencyCloseTarget:      cfg.PendingEmergencyCloseTarget,
		EmergencyCloseEffectiveAt: cfg.EmergencyCloseEffectiveAt,
	}
	if !rover.PendingRevenueDest.Empty() {
		resp.PendingRevenueDest = rover.PendingRevenueDest.String()
	}
	if !cfg.PendingAuthority.Empty() {
		resp.PendingAuthority = cfg.PendingAuthority.String()
	}
	return resp, nil
}
