package keeper

import (
	"context"
	"fmt"
	"strconv"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// ProposeFee queues a fee change behind the timelock. A pending change is
// replaced, and its cancellation is announced first.
func (k Keeper) ProposeFee(ctx context.Context, signer string, feeBps uint32) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	if feeBps > types.MaxFeeBps {
		return errors.Wrapf(types.ErrFeeTooHigh, "%d exceeds %d", feeBps, types.MaxFeeBps)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if cfg.HasPendingFeeChange() {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeeChangeCancelled,
				sdk.NewAttribute(types.AttributeKeyFeeBps, strconv.FormatUint(uint64(cfg.PendingFeeBps), 10)),
				sdk.NewAttribute(types.AttributeKeyEffectiveAt, strconv.FormatInt(cfg.FeeEffectiveAt, 10)),
			),
		)
	}

	cfg.PendingFeeBps = feeBps
	cfg.FeeEffectiveAt = sdkCtx.BlockTime().Unix() + params.TimelockSeconds
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeeChangeProposed,
			sdk.NewAttribute(types.AttributeKeyOldFeeBps, strconv.FormatUint(uint64(cfg.FeeBps), 10)),
			sdk.NewAttribute(types.AttributeKeyFeeBps, strconv.FormatUint(uint64(feeBps), 10)),
			sdk.NewAttribute(types.AttributeKeyEffectiveAt, strconv.FormatInt(cfg.FeeEffectiveAt, 10)),
		),
	)
	k.Logger(ctx).Info("fee change proposed", "fee_bps", feeBps, "effective_at", cfg.FeeEffectiveAt)
	return nil
}

// ApplyFee applies the pending fee once the timelock has expired. Anyone may call it.
func (k Keeper) ApplyFee(ctx context.Context) error {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.HasPendingFeeChange() {
		return types.ErrNoPendingFeeChange
	}
	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	if now < cfg.FeeEffectiveAt {
		return errors.Wrapf(types.ErrTimelockNotExpired, "fee change effective at %d, now %d", cfg.FeeEffectiveAt, now)
	}

	oldFee := cfg.FeeBps
	cfg.FeeBps = cfg.PendingFeeBps
	cfg.PendingFeeBps = 0
	cfg.FeeEffectiveAt = 0
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeeChangeApplied,
			sdk.NewAttribute(types.AttributeKeyOldFeeBps, strconv.FormatUint(uint64(oldFee), 10)),
			sdk.NewAttribute(types.AttributeKeyFeeBps, strconv.FormatUint(uint64(cfg.FeeBps), 10)),
		),
	)
	k.Logger(ctx).Info("fee change applied", "old_fee_bps", oldFee, "fee_bps", cfg.FeeBps)
	return nil
}

// CancelPendingFee drops the pending fee change
func (k Keeper) CancelPendingFee(ctx context.Context, signer string) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	if !cfg.HasPendingFeeChange() {
		return types.ErrNoPendingFeeChange
	}

	cancelled := cfg.PendingFeeBps
	cfg.PendingFeeBps = 0
	cfg.FeeEffectiveAt = 0
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeeChangeCancelled,
			sdk.NewAttribute(types.AttributeKeyFeeBps, strconv.FormatUint(uint64(cancelled), 10)),
		),
	)
	return nil
}

// TransferAuthority nominates a new authority; it takes effect on accept
func (k Keeper) TransferAuthority(ctx context.Context, signer string, newAuthority sdk.AccAddress) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	if newAuthority.Empty() {
		return errors.Wrap(types.ErrInvalidAddress, "new authority cannot be empty")
	}
	cfg.PendingAuthority = newAuthority
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAuthorityProposed,
			sdk.NewAttribute(types.AttributeKeyAuthority, cfg.Authority.String()),
			sdk.NewAttribute(types.AttributeKeyNewAuthority, newAuthority.String()),
		),
	)
	return nil
}

// AcceptAuthority completes a transfer; only the pending authority may accept
func (k Keeper) AcceptAuthority(ctx context.Context, acceptor sdk.AccAddress) error {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.PendingAuthority.Empty() {
		return types.ErrNoPendingAuthority
	}
	if !acceptor.Equals(cfg.PendingAuthority) {
		return errors.Wrapf(types.ErrUnauthorized, "%s is not the pending authority", acceptor)
	}

	old := cfg.Authority
	cfg.Authority = acceptor
	cfg.PendingAuthority = nil
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAuthorityTransferred,
			sdk.NewAttribute(types.AttributeKeyAuthority, old.String()),
			sdk.NewAttribute(types.AttributeKeyNewAuthority, acceptor.String()),
		),
	)
	k.Logger(ctx).Info("protocol authority transferred", "from", old.String(), "to", acceptor.String())
	return nil
}

// SetPaused toggles the deposit pause. Harvest, claim and close are unaffected.
func (k Keeper) SetPaused(ctx context.Context, signer string, paused bool) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	old := cfg.Paused
	cfg.Paused = paused
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}
	emitAdminConfigChanged(ctx, types.ConfigFieldPaused, strconv.FormatBool(old), strconv.FormatBool(paused))
	k.Logger(ctx).Info("deposit pause updated", "paused", paused, "height", sdk.UnwrapSDKContext(ctx).BlockHeight())
	return nil
}

// SetAgentPaused toggles the pause on agent-initiated closes
func (k Keeper) SetAgentPaused(ctx context.Context, signer string, paused bool) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	old := cfg.AgentPaused
	cfg.AgentPaused = paused
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}
	emitAdminConfigChanged(ctx, types.ConfigFieldAgentPaused, strconv.FormatBool(old), strconv.FormatBool(paused))
	return nil
}

// UpdateAgent replaces the designated agent
func (k Keeper) UpdateAgent(ctx context.Context, signer string, agent sdk.AccAddress) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	if agent.Empty() {
		return errors.Wrap(types.ErrInvalidAddress, "agent cannot be empty")
	}
	old := cfg.Agent
	cfg.Agent = agent
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}
	emitAdminConfigChanged(ctx, types.ConfigFieldAgent, old.String(), agent.String())
	k.Logger(ctx).Info("agent updated", "old", old.String(), "new", agent.String())
	return nil
}

// UpdateKeeperTip sets the share of the fee paid to fallback callers
func (k Keeper) UpdateKeeperTip(ctx context.Context, signer string, tipBps uint32) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	if tipBps > types.MaxKeeperTipBps {
		return errors.Wrapf(types.ErrFeeTooHigh, "keeper tip %d exceeds %d", tipBps, types.MaxKeeperTipBps)
	}
	old := cfg.KeeperTipBps
	cfg.KeeperTipBps = tipBps
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}
	emitAdminConfigChanged(ctx, types.ConfigFieldKeeperTipBps, fmt.Sprint(old), fmt.Sprint(tipBps))
	return nil
}

// UpdateStalenessThreshold sets the agent heartbeat window in blocks
func (k Keeper) UpdateStalenessThreshold(ctx context.Context, signer string, threshold uint64) error {
	cfg, _, err := k.requireAuthority(ctx, signer)
	if err != nil {
		return err
	}
	if threshold > types.MaxStalenessThreshold {
		return errors.Wrapf(types.ErrStalenessExceedsMax, "%d exceeds %d", threshold, types.MaxStalenessThreshold)
	}
	old := cfg.StalenessThreshold
	cfg.StalenessThreshold = threshold
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}
	emitAdminConfigChanged(ctx, types.ConfigFieldStalenessThreshold, fmt.Sprint(old), fmt.Sprint(threshold))
	return nil
}
