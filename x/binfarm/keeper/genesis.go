package keeper

import (
	"context"
	"fmt"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// InitGenesis initializes the binfarm module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	if err := k.SetConfig(ctx, genState.Config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	if err := k.SetRoverAuthority(ctx, genState.RoverAuthority); err != nil {
		return fmt.Errorf("failed to set rover authority: %w", err)
	}
	for _, vault := range genState.Vaults {
		if err := k.SetVault(ctx, vault); err != nil {
			return fmt.Errorf("failed to set vault %s: %w", vault.PositionRef, err)
		}
	}
	for _, pos := range genState.Positions {
		if err := k.SetPosition(ctx, pos); err != nil {
			return fmt.Errorf("failed to set position %s: %w", pos.PositionRef, err)
		}
	}
	k.SetNextPositionID(ctx, genState.NextPositionID)
	return nil
}

// ExportGenesis returns the binfarm module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	rover, err := k.GetRoverAuthority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rover authority: %w", err)
	}
	positions, err := k.GetAllPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	vaults, err := k.GetAllVaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get vaults: %w", err)
	}

	return &types.GenesisState{
		Params:         params,
		Config:         cfg,
		RoverAuthority: rover,
		Positions:      positions,
		Vaults:         vaults,
		NextPositionID: k.GetNextPositionID(ctx),
	}, nil
}
