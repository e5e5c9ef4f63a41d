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

// GetRoverAuthority loads the rover authority singleton
func (k Keeper) GetRoverAuthority(ctx context.Context) (types.RoverAuthority, error) {
	var rover types.RoverAuthority
	found, err := k.getRecord(ctx, types.RoverKey, &rover)
	if err != nil {
		return rover, err
	}
	if !found {
		return rover, errors.Wrap(types.ErrInvalidConfig, "rover authority not initialized")
	}
	if err := rover.Validate(); err != nil {
		return rover, err
	}
	return rover, nil
}

// SetRoverAuthority stores the rover authority singleton
func (k Keeper) SetRoverAuthority(ctx context.Context, rover types.RoverAuthority) error {
	if err := rover.Validate(); err != nil {
		return err
	}
	return k.setRecord(ctx, types.RoverKey, rover)
}

// OpenRoverPosition opens a Sell position owned by the rover authority,
// funded by depositor. The range is derived from the live pool state.
func (k Keeper) OpenRoverPosition(ctx context.Context, depositor sdk.AccAddress, poolRef string, amount math.Int) (types.Position, types.Vault, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}
	if cfg.Paused {
		return types.Position{}, types.Vault{}, types.ErrPaused
	}
	return k.openRover(ctx, cfg, depositor, false, poolRef, amount)
}

// OpenFeeRover redeploys denom_x fees held by the rover authority into a new
// rover position. Agent only; not gated by the deposit pause.
func (k Keeper) OpenFeeRover(ctx context.Context, agent sdk.AccAddress, poolRef string, amount math.Int) (types.Position, types.Vault, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}
	if !agent.Equals(cfg.Agent) {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrUnauthorized, "%s is not the agent", agent)
	}
	return k.openRover(ctx, cfg, types.RoverAuthorityAddress(), true, poolRef, amount)
}

func (k Keeper) openRover(ctx context.Context, cfg types.ProtocolConfig, funder sdk.AccAddress, feeFunded bool, poolRef string, amount math.Int) (types.Position, types.Vault, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}
	rover, err := k.GetRoverAuthority(ctx)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.Position{}, types.Vault{}, types.ErrZeroAmount
	}
	if amount.LT(params.MinRoverDeposit) {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrRoverDepositTooSmall, "%s < %s", amount, params.MinRoverDeposit)
	}
	if err := k.verifyProgram(params); err != nil {
		return types.Position{}, types.Vault{}, err
	}

	pool, err := k.loadPoolState(ctx, poolRef)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}
	if pool.BinStep < params.MinRoverBinStep {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrRoverBinStepTooSmall, "%d < %d", pool.BinStep, params.MinRoverBinStep)
	}
	minBin, maxBin, err := types.RoverRange(pool.ActiveBin, pool.BinStep, params.MaxPositionWidth)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}

	pos, vault, err := k.openRange(ctx, openRequest{
		funder:      funder,
		funderSigns: feeFunded,
		owner:       rover.Address,
		poolRef:     poolRef,
		pool:        pool,
		side:        types.SideSell,
		amount:      amount,
		minBin:      minBin,
		maxBin:      maxBin,
		slippage:    params.RoverSlippage,
		rover:       true,
	})
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}

	cfg.TotalPositions = SaturatingAddUint64(cfg.TotalPositions, 1)
	cfg.TotalVolume = SaturatingAdd(cfg.TotalVolume, amount)
	if err := k.SetConfig(ctx, cfg); err != nil {
		return types.Position{}, types.Vault{}, err
	}
	rover.TotalRoverPositions = SaturatingAddUint64(rover.TotalRoverPositions, 1)
	if err := k.SetRoverAuthority(ctx, rover); err != nil {
		return types.Position{}, types.Vault{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoverOpened,
			sdk.NewAttribute(types.AttributeKeyPositionRef, pos.PositionRef),
			sdk.NewAttribute(types.AttributeKeyPoolRef, poolRef),
			sdk.NewAttribute(types.AttributeKeyDepositor, funder.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyMinBin, fmt.Sprintf("%d", minBin)),
			sdk.NewAttribute(types.AttributeKeyMaxBin, fmt.Sprintf("%d", maxBin)),
			sdk.NewAttribute(types.AttributeKeyFeeFunded, strconv.FormatBool(feeFunded)),
		),
	)
	k.metrics.PositionsOpened.WithLabelValues(types.SideSell.String(), "true").Inc()
	k.Logger(ctx).Info("rover opened", "position_ref", pos.PositionRef, "fee_funded", feeFunded, "amount", amount.String())
	return pos, vault, nil
}

// SweepRover moves the rover authority's revenue_denom balance above the
// reserve floor to the revenue destination. Anyone may call it.
func (k Keeper) SweepRover(ctx context.Context, caller sdk.AccAddress) (math.Int, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return math.Int{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	rover, err := k.GetRoverAuthority(ctx)
	if err != nil {
		return math.Int{}, err
	}

	if caller.Equals(cfg.Agent) {
		cfg.LastAgentSweepAt = uint64(sdk.UnwrapSDKContext(ctx).BlockHeight())
		if err := k.SetConfig(ctx, cfg); err != nil {
			return math.Int{}, err
		}
	}

	balance := k.bankKeeper.GetBalance(ctx, rover.Address, params.RevenueDenom).Amount
	if balance.LTE(params.RoverReserveFloor) {
		return math.Int{}, types.ErrNothingToSweep
	}
	sweepable := balance.Sub(params.RoverReserveFloor)

	memo := fmt.Sprintf("binfarm rover sweep to %s", rover.RevenueDest)
	if err := k.signedTransfer(ctx, rover.Address, rover.RevenueDest, params.RevenueDenom, sweepable, memo); err != nil {
		return math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoverSwept,
			sdk.NewAttribute(types.AttributeKeyAmount, sweepable.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, params.RevenueDenom),
			sdk.NewAttribute(types.AttributeKeyRevenueDest, rover.RevenueDest.String()),
			sdk.NewAttribute(types.AttributeKeyCaller, caller.String()),
		),
	)
	k.metrics.RoverSwept.WithLabelValues(params.RevenueDenom).Add(amountToFloat(sweepable))
	return sweepable, nil
}

// ProposeRevenueDest queues a revenue destination change behind the timelock
func (k Keeper) ProposeRevenueDest(ctx context.Context, signer string, dest sdk.AccAddress) error {
	if _, _, err := k.requireAuthority(ctx, signer); err != nil {
		return err
	}
	if dest.Empty() {
		return types.ErrInvalidRevenueDest
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	rover, err := k.GetRoverAuthority(ctx)
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if rover.HasPendingRevenueDest() {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRevenueDestCancelled,
				sdk.NewAttribute(types.AttributeKeyRevenueDest, rover.PendingRevenueDest.String()),
			),
		)
	}
	rover.PendingRevenueDest = dest
	rover.RevenueDestChangeAt = sdkCtx.BlockTime().Unix() + params.TimelockSeconds
	if err := k.SetRoverAuthority(ctx, rover); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRevenueDestProposed,
			sdk.NewAttribute(types.AttributeKeyRevenueDest, dest.String()),
			sdk.NewAttribute(types.AttributeKeyEffectiveAt, strconv.FormatInt(rover.RevenueDestChangeAt, 10)),
		),
	)
	return nil
}

// ApplyRevenueDest applies a pending revenue destination after the timelock
func (k Keeper) ApplyRevenueDest(ctx context.Context) error {
	rover, err := k.GetRoverAuthority(ctx)
	if err != nil {
		return err
	}
	if !rover.HasPendingRevenueDest() {
		return types.ErrNoPendingRevenueDest
	}
	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	if now < rover.RevenueDestChangeAt {
		return errors.Wrapf(types.ErrTimelockNotExpired, "revenue destination change effective at %d, now %d", rover.RevenueDestChangeAt, now)
	}

	rover.RevenueDest = rover.PendingRevenueDest
	rover.PendingRevenueDest = nil
	rover.RevenueDestChangeAt = 0
	if err := k.SetRoverAuthority(ctx, rover); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRevenueDestApplied,
			sdk.NewAttribute(types.AttributeKeyRevenueDest, rover.RevenueDest.String()),
		),
	)
	k.Logger(ctx).Info("revenue destination applied", "revenue_dest", rover.RevenueDest.String())
	return nil
}

// CancelPendingRevenueDest drops a pending revenue destination change
func (k Keeper) CancelPendingRevenueDest(ctx context.Context, signer string) error {
	if _, _, err := k.requireAuthority(ctx, signer); err != nil {
		return err
	}
	rover, err := k.GetRoverAuthority(ctx)
	if err != nil {
		return err
	}
	if !rover.HasPendingRevenueDest() {
		return types.ErrNoPendingRevenueDest
	}

	cancelled := rover.PendingRevenueDest
	rover.PendingRevenueDest = nil
	rover.RevenueDestChangeAt = 0
	if err := k.SetRoverAuthority(ctx, rover); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRevenueDestCancelled,
			sdk.NewAttribute(types.AttributeKeyRevenueDest, cancelled.String()),
		),
	)
	return nil
}
