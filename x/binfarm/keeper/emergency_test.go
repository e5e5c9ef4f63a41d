package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/monkearmy/binfarm/testutil/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

func TestEmergencyClose_DrainsVaultWithoutPool(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	vault := types.VaultAddress(pos.PositionRef)

	// tokens stranded in the vault, e.g. after a partial withdrawal
	f.Fund(vault, sdk.NewInt64Coin(keepertest.TestDenomX, 700), sdk.NewInt64Coin(keepertest.TestDenomY, 40))

	require.NoError(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Authority.String(), pos.PositionRef))
	requireEvent(t, f.Ctx, types.EventTypeEmergencyCloseProposed)

	_, _, _, err := f.Keeper.ApplyEmergencyClose(f.Ctx)
	require.ErrorIs(t, err, types.ErrTimelockNotExpired)

	f.Pool.SetBroken(true)
	f.AdvanceTime(timelock)

	resp, err := f.MsgServer().ApplyEmergencyClose(f.Ctx, &types.MsgApplyEmergencyClose{Caller: keepertest.Bob.String()})
	require.NoError(t, err)
	require.Equal(t, pos.PositionRef, resp.PositionRef)
	requireAmount(t, 700, resp.AmountX)
	requireAmount(t, 40, resp.AmountY)

	requireAmount(t, 700, f.Balance(keepertest.Alice, keepertest.TestDenomX))
	requireAmount(t, 40, f.Balance(keepertest.Alice, keepertest.TestDenomY))
	requireAmount(t, 0, f.Balance(vault, keepertest.TestDenomX))
	require.False(t, f.Keeper.HasPosition(f.Ctx, pos.PositionRef))

	cfg, err := f.Keeper.GetConfig(f.Ctx)
	require.NoError(t, err)
	require.False(t, cfg.HasPendingEmergencyClose())
	requireEvent(t, f.Ctx, types.EventTypeEmergencyClose)

	_, _, _, err = f.Keeper.ApplyEmergencyClose(f.Ctx)
	require.ErrorIs(t, err, types.ErrNoPendingEmergency)
}

func TestEmergencyClose_ProposalChecks(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)

	require.ErrorIs(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Alice.String(), pos.PositionRef), types.ErrUnauthorized)
	require.ErrorIs(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Authority.String(), "binfarm-99"), types.ErrPositionNotFound)

	_, _, _, err := f.Keeper.ApplyEmergencyClose(f.Ctx)
	require.ErrorIs(t, err, types.ErrNoPendingEmergency)
}

func TestEmergencyClose_LaterProposalReplacesTarget(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	first := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	second := f.OpenSell(t, keepertest.Bob, 10_000, 101, 110)

	require.NoError(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Authority.String(), first.PositionRef))
	f.AdvanceTime(timelock / 2)
	require.NoError(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Authority.String(), second.PositionRef))

	f.AdvanceTime(timelock / 2)
	_, _, _, err := f.Keeper.ApplyEmergencyClose(f.Ctx)
	require.ErrorIs(t, err, types.ErrTimelockNotExpired)

	f.AdvanceTime(timelock / 2)
	ref, _, _, err := f.Keeper.ApplyEmergencyClose(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, second.PositionRef, ref)
	require.True(t, f.Keeper.HasPosition(f.Ctx, first.PositionRef))
	require.False(t, f.Keeper.HasPosition(f.Ctx, second.PositionRef))
}

func TestEmergencyClose_WorksWhilePaused(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	require.NoError(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Authority.String(), pos.PositionRef))
	setPaused(t, f, true)
	require.NoError(t, f.Keeper.SetAgentPaused(f.Ctx, keepertest.Authority.String(), true))

	f.AdvanceTime(timelock)
	ref, x, y, err := f.Keeper.ApplyEmergencyClose(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, pos.PositionRef, ref)
	require.True(t, x.IsZero())
	require.True(t, y.IsZero())
}
