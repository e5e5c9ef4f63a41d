package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// ClosePosition is the agent close with the stale-agent fallback. The agent
// path honors agent_paused; fallback callers earn the keeper tip.
func (k Keeper) ClosePosition(ctx context.Context, caller sdk.AccAddress, ref, tipRecipient string) (types.Payout, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Payout{}, err
	}
	pos, err := k.GetPosition(ctx, ref)
	if err != nil {
		return types.Payout{}, err
	}

	if caller.Equals(cfg.Agent) && cfg.AgentPaused {
		return types.Payout{}, types.ErrAgentPaused
	}
	auth, err := authorizeAgentAction(ctx, &cfg, caller, &cfg.LastAgentCloseAt, tipRecipient)
	if err != nil {
		return types.Payout{}, err
	}

	return k.closeAndSettle(ctx, cfg, pos, caller, auth, true)
}

// UserClose lets the owner exit at any time. It is never paused and pays no tip.
func (k Keeper) UserClose(ctx context.Context, owner sdk.AccAddress, ref string) (types.Payout, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Payout{}, err
	}
	pos, err := k.GetPosition(ctx, ref)
	if err != nil {
		return types.Payout{}, err
	}
	if !owner.Equals(pos.Owner) {
		return types.Payout{}, errors.Wrapf(types.ErrUnauthorized, "%s does not own %s", owner, ref)
	}

	return k.closeAndSettle(ctx, cfg, pos, owner, agentAuth{}, false)
}

// closeAndSettle unwinds the whole range, claims accrued fees, closes the
// pool position with rent to initiator and settles the vault. The fee base is
// the entire converted-side balance, which includes fees claimed here.
func (k Keeper) closeAndSettle(ctx context.Context, cfg types.ProtocolConfig, pos types.Position, initiator sdk.AccAddress, auth agentAuth, agentInitiated bool) (types.Payout, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Payout{}, err
	}
	ref := pos.PositionRef
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

	if err := k.poolService.RemoveLiquidityByRange(ctx, ref, vault.Address, pos.MinBin, pos.MaxBin, types.BpsDenominator); err != nil {
		return types.Payout{}, errors.Wrapf(types.ErrPoolService, "remove liquidity: %s", err)
	}
	if err := k.poolService.ClaimAccruedFees(ctx, ref, vault.Address, pos.MinBin, pos.MaxBin); err != nil {
		return types.Payout{}, errors.Wrapf(types.ErrPoolService, "claim fees: %s", err)
	}
	if err := k.poolService.ClosePosition(ctx, ref, vault.Address, initiator); err != nil {
		return types.Payout{}, errors.Wrapf(types.ErrPoolService, "close position: %s", err)
	}

	converted, deposit := k.sidedBalances(ctx, pos, vault)
	payout, err := computePayout(converted, deposit, converted, cfg, auth)
	if err != nil {
		return types.Payout{}, err
	}
	if err := k.distributePayout(ctx, pos, vault, payout, auth, "close"); err != nil {
		return types.Payout{}, err
	}

	if cfg.TotalHarvested, err = SafeAdd(cfg.TotalHarvested, payout.UserConverted); err != nil {
		return types.Payout{}, err
	}
	if cfg.PendingEmergencyCloseTarget == ref {
		cfg.PendingEmergencyCloseTarget = ""
		cfg.EmergencyCloseEffectiveAt = 0
	}
	if err := k.SetConfig(ctx, cfg); err != nil {
		return types.Payout{}, err
	}
	k.deletePosition(ctx, pos)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyPositionRef, ref),
		sdk.NewAttribute(types.AttributeKeyOwner, pos.Owner.String()),
		sdk.NewAttribute(types.AttributeKeyCaller, initiator.String()),
		sdk.NewAttribute(types.AttributeKeySide, pos.Side.String()),
		sdk.NewAttribute(types.AttributeKeyAgentInitiated, fmt.Sprintf("%t", agentInitiated)),
	}
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypePositionClosed, append(attrs, payoutAttributes(payout, auth)...)...))

	convertedDenom := pos.Side.ConvertedDenom(vault.DenomX, vault.DenomY)
	k.metrics.recordPayout("close", convertedDenom, payout, auth.fallback)
	k.Logger(ctx).Info("position closed",
		"position_ref", ref,
		"owner", pos.Owner.String(),
		"agent_initiated", agentInitiated,
		"fallback", auth.fallback,
		"fee", payout.Fee.String(),
		"user_payout", payout.UserConverted.String(),
	)
	return payout, nil
}
