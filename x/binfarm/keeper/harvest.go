package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// HarvestBins withdraws a contiguous run of bins, charges the protocol fee on
// the converted-side delta and pays the rest of the vault to the owner.
// Harvests are never gated by the pause flags.
func (k Keeper) HarvestBins(ctx context.Context, caller sdk.AccAddress, ref string, binIDs []int32, tipRecipient string) (types.Payout, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Payout{}, err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Payout{}, err
	}
	pos, err := k.GetPosition(ctx, ref)
	if err != nil {
		return types.Payout{}, err
	}

	from, to, err := types.ContiguousBinRange(binIDs, params.MaxBinsPerHarvest)
	if err != nil {
		return types.Payout{}, err
	}
	if !pos.ContainsBin(from) || !pos.ContainsBin(to) {
		return types.Payout{}, errors.Wrapf(types.ErrBinOutOfPositionRange, "[%d,%d] not within [%d,%d]", from, to, pos.MinBin, pos.MaxBin)
	}

	auth, err := authorizeAgentAction(ctx, &cfg, caller, &cfg.LastAgentHarvestAt, tipRecipient)
	if err != nil {
		return types.Payout{}, err
	}
	vault, err := k.GetVault(ctx, ref)
	if err != nil {
		return types.Payout{}, err
	}
	if err := k.validateTipRecipient(ctx, auth, pos, vault); err != nil {
		return types.Payout{}, err
	}
	if err := k.verifyProgram(params); err != nil {
		return types.Payout{}, err
	}
	if err := k.verifyPoolOwner(ctx, vault); err != nil {
		return types.Payout{}, err
	}

	convertedDenom := pos.Side.ConvertedDenom(vault.DenomX, vault.DenomY)
	before := k.bankKeeper.GetBalance(ctx, vault.Address, convertedDenom).Amount

	if err := k.poolService.RemoveLiquidityByRange(ctx, ref, vault.Address, from, to, types.BpsDenominator); err != nil {
		return types.Payout{}, errors.Wrapf(types.ErrPoolService, "remove liquidity: %s", err)
	}

	converted, deposit := k.sidedBalances(ctx, pos, vault)
	delta, err := SafeSub(converted, before)
	if err != nil {
		return types.Payout{}, err
	}
	payout, err := computePayout(converted, deposit, delta, cfg, auth)
	if err != nil {
		return types.Payout{}, err
	}
	if err := k.distributePayout(ctx, pos, vault, payout, auth, "harvest"); err != nil {
		return types.Payout{}, err
	}

	if pos.HarvestedAmount, err = SafeAdd(pos.HarvestedAmount, payout.UserConverted); err != nil {
		return types.Payout{}, err
	}
	if cfg.TotalHarvested, err = SafeAdd(cfg.TotalHarvested, payout.UserConverted); err != nil {
		return types.Payout{}, err
	}
	if err := k.SetPosition(ctx, pos); err != nil {
		return types.Payout{}, err
	}
	if err := k.SetConfig(ctx, cfg); err != nil {
		return types.Payout{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyPositionRef, ref),
		sdk.NewAttribute(types.AttributeKeyOwner, pos.Owner.String()),
		sdk.NewAttribute(types.AttributeKeyCaller, caller.String()),
		sdk.NewAttribute(types.AttributeKeyFromBin, fmt.Sprintf("%d", from)),
		sdk.NewAttribute(types.AttributeKeyToBin, fmt.Sprintf("%d", to)),
		sdk.NewAttribute(types.AttributeKeyCumulative, pos.HarvestedAmount.String()),
	}
	if delta.IsZero() {
		k.Logger(ctx).Debug("harvest produced no converted output", "position_ref", ref, "from_bin", from, "to_bin", to)
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeHarvestEmpty, attrs...))
	} else {
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeHarvest, append(attrs, payoutAttributes(payout, auth)...)...))
	}
	k.metrics.recordPayout("harvest", convertedDenom, payout, auth.fallback)

	return payout, nil
}

// sidedBalances returns the vault balances as (converted, deposit) for the
// position's side.
func (k Keeper) sidedBalances(ctx context.Context, pos types.Position, vault types.Vault) (converted, deposit math.Int) {
	x, y := k.vaultBalances(ctx, vault)
	if pos.Side == types.SideSell {
		return y, x
	}
	return x, y
}
