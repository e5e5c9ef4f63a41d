package keeper

import (
	"context"
	"fmt"
	"strconv"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// ProposeEmergencyClose queues a timelocked drain of one position's vault.
// A later proposal replaces the pending one.
func (k Keeper) ProposeEmergencyClose(ctx context.Context, signer, ref string) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	if !k.HasPosition(ctx, ref) {
		return errors.Wrapf(types.ErrPositionNotFound, "%s", ref)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cfg.PendingEmergencyCloseTarget = ref
	cfg.EmergencyCloseEffectiveAt = sdkCtx.BlockTime().Unix() + params.TimelockSeconds
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEmergencyCloseProposed,
			sdk.NewAttribute(types.AttributeKeyPositionRef, ref),
			sdk.NewAttribute(types.AttributeKeyEffectiveAt, strconv.FormatInt(cfg.EmergencyCloseEffectiveAt, 10)),
		),
	)
	k.Logger(ctx).Info("emergency close proposed", "position_ref", ref, "effective_at", cfg.EmergencyCloseEffectiveAt)
	return nil
}

// ApplyEmergencyClose pays every vault balance of the target position to its
// owner and deletes the position. The pool service is never called, so this
// works when the pool is unavailable; liquidity still deployed in the pool
// is not recovered.
func (k Keeper) ApplyEmergencyClose(ctx context.Context) (string, math.Int, math.Int, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return "", math.Int{}, math.Int{}, err
	}
	if !cfg.HasPendingEmergencyClose() {
		return "", math.Int{}, math.Int{}, types.ErrNoPendingEmergency
	}
	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	if now < cfg.EmergencyCloseEffectiveAt {
		return "", math.Int{}, math.Int{}, errors.Wrapf(types.ErrTimelockNotExpired, "emergency close effective at %d, now %d", cfg.EmergencyCloseEffectiveAt, now)
	}

	ref := cfg.PendingEmergencyCloseTarget
	pos, err := k.GetPosition(ctx, ref)
	if err != nil {
		return "", math.Int{}, math.Int{}, err
	}
	vault, err := k.GetVault(ctx, ref)
	if err != nil {
		return "", math.Int{}, math.Int{}, err
	}

	x, y, err := k.drainVault(ctx, vault, pos.Owner, fmt.Sprintf("binfarm emergency close %s", ref))
	if err != nil {
		return "", math.Int{}, math.Int{}, err
	}

	cfg.PendingEmergencyCloseTarget = ""
	cfg.EmergencyCloseEffectiveAt = 0
	if err := k.SetConfig(ctx, cfg); err != nil {
		return "", math.Int{}, math.Int{}, err
	}
	k.deletePosition(ctx, pos)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEmergencyClose,
			sdk.NewAttribute(types.AttributeKeyPositionRef, ref),
			sdk.NewAttribute(types.AttributeKeyOwner, pos.Owner.String()),
			sdk.NewAttribute(types.AttributeKeyAmountX, x.String()),
			sdk.NewAttribute(types.AttributeKeyAmountY, y.String()),
		),
	)
	k.metrics.EmergencyCloses.Inc()
	k.Logger(ctx).Info("emergency close applied", "position_ref", ref, "owner", pos.Owner.String(), "amount_x", x.String(), "amount_y", y.String())
	return ref, x, y, nil
}
