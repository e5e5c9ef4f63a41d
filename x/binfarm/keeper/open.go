package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// openRequest describes a new range position. funder pays the deposit; when
// funderSigns is set funder is a module account and the transfer carries a
// memo.
type openRequest struct {
	funder      sdk.AccAddress
	funderSigns bool
	owner       sdk.AccAddress
	poolRef     string
	pool        types.PoolState
	side        types.Side
	amount      math.Int
	minBin      int32
	maxBin      int32
	slippage    uint32
	rover       bool
}

// OpenPosition deposits one side of the pair into a new position owned by owner
func (k Keeper) OpenPosition(ctx context.Context, owner sdk.AccAddress, poolRef string, amount math.Int, minBin, maxBin int32, slippage uint32) (types.Position, types.Vault, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}
	if cfg.Paused {
		return types.Position{}, types.Vault{}, types.ErrPaused
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}

	if amount.IsNil() || !amount.IsPositive() {
		return types.Position{}, types.Vault{}, types.ErrZeroAmount
	}
	if amount.LT(params.MinPositionAmount) {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrPositionTooSmall, "%s < %s", amount, params.MinPositionAmount)
	}
	if slippage > types.MaxActiveBinSlippage {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrInvalidSlippage, "%d", slippage)
	}
	if minBin > maxBin {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrInvalidBinRange, "min %d > max %d", minBin, maxBin)
	}
	if width := int64(maxBin) - int64(minBin) + 1; width > int64(params.MaxPositionWidth) {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrPositionTooWide, "width %d exceeds %d", width, params.MaxPositionWidth)
	}
	if err := k.verifyProgram(params); err != nil {
		return types.Position{}, types.Vault{}, err
	}

	pool, err := k.loadPoolState(ctx, poolRef)
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}

	pos, vault, err := k.openRange(ctx, openRequest{
		funder:   owner,
		owner:    owner,
		poolRef:  poolRef,
		pool:     pool,
		side:     types.SideForRange(minBin, pool.ActiveBin),
		amount:   amount,
		minBin:   minBin,
		maxBin:   maxBin,
		slippage: slippage,
	})
	if err != nil {
		return types.Position{}, types.Vault{}, err
	}

	cfg.TotalPositions = SaturatingAddUint64(cfg.TotalPositions, 1)
	cfg.TotalVolume = SaturatingAdd(cfg.TotalVolume, amount)
	if err := k.SetConfig(ctx, cfg); err != nil {
		return types.Position{}, types.Vault{}, err
	}

	k.metrics.PositionsOpened.WithLabelValues(pos.Side.String(), "false").Inc()

	k.Logger(ctx).Info("position opened",
		"position_ref", pos.PositionRef,
		"owner", owner.String(),
		"side", pos.Side.String(),
		"amount", amount.String(),
	)
	return pos, vault, nil
}

// loadPoolState reads the pool from the pool service and sanity checks it.
// Range decisions always use this view, never caller-supplied values.
func (k Keeper) loadPoolState(ctx context.Context, poolRef string) (types.PoolState, error) {
	pool, err := k.poolService.PoolState(ctx, poolRef)
	if err != nil {
		return pool, errors.Wrapf(types.ErrPoolService, "pool %s: %s", poolRef, err)
	}
	if pool.ActiveBin <= -types.MaxBinID || pool.ActiveBin >= types.MaxBinID {
		return pool, errors.Wrapf(types.ErrInvalidPool, "active bin %d out of range", pool.ActiveBin)
	}
	if err := sdk.ValidateDenom(pool.DenomX); err != nil {
		return pool, errors.Wrapf(types.ErrInvalidPool, "denom_x: %s", err)
	}
	if err := sdk.ValidateDenom(pool.DenomY); err != nil {
		return pool, errors.Wrapf(types.ErrInvalidPool, "denom_y: %s", err)
	}
	if pool.DenomX == pool.DenomY {
		return pool, errors.Wrapf(types.ErrInvalidPool, "identical denoms %s", pool.DenomX)
	}
	return pool, nil
}

// openRange creates the pool position, binds its vault, funds it and adds
// one-sided liquidity. Callers own config bookkeeping.
func (k Keeper) openRange(ctx context.Context, req openRequest) (types.Position, types.Vault, error) {
	ref := k.nextPositionRef(ctx)
	if k.HasPosition(ctx, ref) {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrPositionExists, "%s", ref)
	}
	vault := types.NewVault(ref, req.pool.DenomX, req.pool.DenomY)
	width := uint32(int64(req.maxBin) - int64(req.minBin) + 1)

	if err := k.poolService.OpenRangePosition(ctx, req.poolRef, ref, vault.Address, req.minBin, width); err != nil {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrPoolService, "open position: %s", err)
	}
	if err := k.verifyPoolOwner(ctx, vault); err != nil {
		return types.Position{}, types.Vault{}, err
	}

	depositDenom := req.side.DepositDenom(vault.DenomX, vault.DenomY)
	if req.funderSigns {
		memo := fmt.Sprintf("binfarm fund %s", ref)
		if err := k.signedTransfer(ctx, req.funder, vault.Address, depositDenom, req.amount, memo); err != nil {
			return types.Position{}, types.Vault{}, err
		}
	} else {
		coins := sdk.NewCoins(sdk.NewCoin(depositDenom, req.amount))
		if err := k.bankKeeper.SendCoins(ctx, req.funder, vault.Address, coins); err != nil {
			return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrTransfer, "deposit: %s", err)
		}
	}

	amountX, amountY := math.ZeroInt(), math.ZeroInt()
	if req.side == types.SideSell {
		amountX = req.amount
	} else {
		amountY = req.amount
	}
	if err := k.poolService.AddLiquidityOneSided(ctx, ref, vault.Address, amountX, amountY, req.minBin, req.maxBin, req.pool.ActiveBin, req.slippage); err != nil {
		return types.Position{}, types.Vault{}, errors.Wrapf(types.ErrPoolService, "add liquidity: %s", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pos := types.Position{
		Version:         types.PositionVersion,
		Owner:           req.owner,
		PoolRef:         req.poolRef,
		PositionRef:     ref,
		Side:            req.side,
		MinBin:          req.minBin,
		MaxBin:          req.maxBin,
		InitialAmount:   req.amount,
		HarvestedAmount: math.ZeroInt(),
		CreatedAt:       sdkCtx.BlockTime().Unix(),
		Rover:           req.rover,
	}
	if err := k.SetVault(ctx, vault); err != nil {
		return types.Position{}, types.Vault{}, err
	}
	if err := k.SetPosition(ctx, pos); err != nil {
		return types.Position{}, types.Vault{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePositionOpened,
			sdk.NewAttribute(types.AttributeKeyPositionRef, ref),
			sdk.NewAttribute(types.AttributeKeyOwner, req.owner.String()),
			sdk.NewAttribute(types.AttributeKeyPoolRef, req.poolRef),
			sdk.NewAttribute(types.AttributeKeyVault, vault.Address.String()),
			sdk.NewAttribute(types.AttributeKeySide, req.side.String()),
			sdk.NewAttribute(types.AttributeKeyMinBin, fmt.Sprintf("%d", req.minBin)),
			sdk.NewAttribute(types.AttributeKeyMaxBin, fmt.Sprintf("%d", req.maxBin)),
			sdk.NewAttribute(types.AttributeKeyAmount, req.amount.String()),
		),
	)
	return pos, vault, nil
}
