package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// ClaimFees pays the trading fees accrued by a position to its owner. No
// protocol fee is charged and the pause flags do not apply.
func (k Keeper) ClaimFees(ctx context.Context, owner sdk.AccAddress, ref string) (math.Int, math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	pos, err := k.GetPosition(ctx, ref)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !owner.Equals(pos.Owner) {
		return math.Int{}, math.Int{}, errors.Wrapf(types.ErrUnauthorized, "%s does not own %s", owner, ref)
	}
	vault, err := k.GetVault(ctx, ref)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := k.verifyProgram(params); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := k.verifyPoolOwner(ctx, vault); err != nil {
		return math.Int{}, math.Int{}, err
	}

	beforeX, beforeY := k.vaultBalances(ctx, vault)
	if err := k.poolService.ClaimAccruedFees(ctx, ref, vault.Address, pos.MinBin, pos.MaxBin); err != nil {
		return math.Int{}, math.Int{}, errors.Wrapf(types.ErrPoolService, "claim fees: %s", err)
	}
	afterX, afterY := k.vaultBalances(ctx, vault)

	feeX, err := SafeSub(afterX, beforeX)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	feeY, err := SafeSub(afterY, beforeY)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	memo := fmt.Sprintf("binfarm claim %s", ref)
	if err := k.signedTransfer(ctx, vault.Address, owner, vault.DenomX, feeX, memo); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := k.signedTransfer(ctx, vault.Address, owner, vault.DenomY, feeY, memo); err != nil {
		return math.Int{}, math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesClaimed,
			sdk.NewAttribute(types.AttributeKeyPositionRef, ref),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyAmountX, feeX.String()),
			sdk.NewAttribute(types.AttributeKeyAmountY, feeY.String()),
		),
	)
	return feeX, feeY, nil
}
