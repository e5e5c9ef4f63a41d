package keeper

import (
	"context"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// GetParams returns the current parameters for the binfarm module
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	var params types.Params
	found, err := k.getRecord(ctx, types.ParamsKey, &params)
	if err != nil {
		return params, err
	}
	if !found {
		return types.DefaultParams(), nil
	}
	return params, nil
}

// SetParams sets the parameters for the binfarm module
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return k.setRecord(ctx, types.ParamsKey, params)
}

// UpdateParams replaces the module params; only the governance authority may call it
func (k Keeper) UpdateParams(ctx context.Context, signer string, params types.Params) error {
	if k.authority != signer {
		return govtypes.ErrInvalidSigner.Wrapf("invalid authority; expected %s, got %s", k.authority, signer)
	}
	if err := k.SetParams(ctx, params); err != nil {
		return errors.Wrap(err, "update params")
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyAuthority, signer),
		),
	)
	k.Logger(ctx).Info("binfarm params updated", "pool_program", params.PoolProgram, "timelock_seconds", params.TimelockSeconds)
	return nil
}
