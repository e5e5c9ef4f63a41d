package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/monkearmy/binfarm/testutil/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

func TestUserClose_BuyPositionFullyConverted(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenBuy(t, keepertest.Alice, 50_000, 91, 100)
	f.Pool.ConvertBins(f.Ctx, pos.PositionRef, 91, 100, math.NewInt(5_000))

	payout, err := f.Keeper.UserClose(f.Ctx, keepertest.Alice, pos.PositionRef)
	require.NoError(t, err)

	requireAmount(t, 50_000, payout.Delta)
	requireAmount(t, 150, payout.Fee)
	requireAmount(t, 0, payout.Tip)
	requireAmount(t, 49_850, payout.UserConverted)
	requireAmount(t, 49_850, f.Balance(keepertest.Alice, keepertest.TestDenomX))
	requireAmount(t, 150, f.Balance(types.RoverAuthorityAddress(), keepertest.TestDenomX))

	require.False(t, f.Keeper.HasPosition(f.Ctx, pos.PositionRef))
	_, err = f.Keeper.GetVault(f.Ctx, pos.PositionRef)
	require.ErrorIs(t, err, types.ErrVaultMismatch)
	positions, err := f.Keeper.GetPositionsByOwner(f.Ctx, keepertest.Alice)
	require.NoError(t, err)
	require.Empty(t, positions)

	closed, rentReceiver := f.Pool.IsClosed(f.Ctx, pos.PositionRef)
	require.True(t, closed)
	require.Equal(t, keepertest.Alice, rentReceiver)

	ev := requireEvent(t, f.Ctx, types.EventTypePositionClosed)
	require.Equal(t, "false", eventAttr(ev, types.AttributeKeyAgentInitiated))
}

func TestUserClose_OnlyOwner(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)

	for _, caller := range []sdk.AccAddress{keepertest.Bob, keepertest.Agent, keepertest.Authority} {
		_, err := f.Keeper.UserClose(f.Ctx, caller, pos.PositionRef)
		require.ErrorIs(t, err, types.ErrUnauthorized)
	}
	require.True(t, f.Keeper.HasPosition(f.Ctx, pos.PositionRef))
}

func TestUserClose_UnconvertedReturnsDeposit(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)

	payout, err := f.Keeper.UserClose(f.Ctx, keepertest.Alice, pos.PositionRef)
	require.NoError(t, err)
	requireAmount(t, 0, payout.Fee)
	requireAmount(t, 10_000, payout.UserDeposit)
	requireAmount(t, 10_000, f.Balance(keepertest.Alice, keepertest.TestDenomX))
}

func TestClosePosition_Agent(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := openConvertedSell(t, f, keepertest.Alice)

	payout, err := f.Keeper.ClosePosition(f.Ctx, keepertest.Agent, pos.PositionRef, "")
	require.NoError(t, err)
	requireAmount(t, 30, payout.Fee)
	requireAmount(t, 0, payout.Tip)
	requireAmount(t, 9_970, f.Balance(keepertest.Alice, keepertest.TestDenomY))

	_, rentReceiver := f.Pool.IsClosed(f.Ctx, pos.PositionRef)
	require.Equal(t, keepertest.Agent, rentReceiver)

	cfg, err := f.Keeper.GetConfig(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(keepertest.TestHeight), cfg.LastAgentCloseAt)
	require.Zero(t, cfg.LastAgentHarvestAt, "close refreshes only its own heartbeat")
	requireAmount(t, 9_970, cfg.TotalHarvested)

	ev := requireEvent(t, f.Ctx, types.EventTypePositionClosed)
	require.Equal(t, "true", eventAttr(ev, types.AttributeKeyAgentInitiated))
}

func TestClosePosition_FallbackPaysTip(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := openConvertedSell(t, f, keepertest.Alice)

	payout, err := f.Keeper.ClosePosition(f.Ctx, keepertest.Bob, pos.PositionRef, keepertest.KeeperBot.String())
	require.NoError(t, err)
	requireAmount(t, 3, payout.Tip)
	requireAmount(t, 27, payout.ProtocolFee)
	requireAmount(t, 3, f.Balance(keepertest.KeeperBot, keepertest.TestDenomY))
	requireAmount(t, 27, f.Balance(types.RoverAuthorityAddress(), keepertest.TestDenomY))
	requireAmount(t, 9_970, f.Balance(keepertest.Alice, keepertest.TestDenomY))

	_, rentReceiver := f.Pool.IsClosed(f.Ctx, pos.PositionRef)
	require.Equal(t, keepertest.Bob, rentReceiver)
}

func TestClosePosition_FallbackRequiresStaleAgent(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := openConvertedSell(t, f, keepertest.Alice)
	f.AgentHeartbeat(t)

	_, err := f.Keeper.ClosePosition(f.Ctx, keepertest.Bob, pos.PositionRef, keepertest.KeeperBot.String())
	require.ErrorIs(t, err, types.ErrAgentNotStale)
	require.True(t, f.Keeper.HasPosition(f.Ctx, pos.PositionRef))
}

func TestClosePosition_HarvestHeartbeatDoesNotCoverClose(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := openConvertedSell(t, f, keepertest.Alice)

	// a fresh agent harvest leaves the close heartbeat stale
	_, err := f.Keeper.HarvestBins(f.Ctx, keepertest.Agent, pos.PositionRef, []int32{101}, "")
	require.NoError(t, err)

	_, err = f.Keeper.ClosePosition(f.Ctx, keepertest.Bob, pos.PositionRef, keepertest.KeeperBot.String())
	require.NoError(t, err)
}

func TestClosePosition_AgentPaused(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	first := openConvertedSell(t, f, keepertest.Alice)
	second := openConvertedSell(t, f, keepertest.Bob)
	require.NoError(t, f.Keeper.SetAgentPaused(f.Ctx, keepertest.Authority.String(), true))

	_, err := f.Keeper.ClosePosition(f.Ctx, keepertest.Agent, first.PositionRef, "")
	require.ErrorIs(t, err, types.ErrAgentPaused)

	// fallback and owner exits are unaffected
	_, err = f.Keeper.ClosePosition(f.Ctx, keepertest.KeeperBot, first.PositionRef, keepertest.KeeperBot.String())
	require.NoError(t, err)
	_, err = f.Keeper.UserClose(f.Ctx, keepertest.Bob, second.PositionRef)
	require.NoError(t, err)
}

func TestClose_NotGatedByDepositPause(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	first := openConvertedSell(t, f, keepertest.Alice)
	second := openConvertedSell(t, f, keepertest.Alice)
	setPaused(t, f, true)

	_, err := f.Keeper.UserClose(f.Ctx, keepertest.Alice, first.PositionRef)
	require.NoError(t, err)
	_, err = f.Keeper.ClosePosition(f.Ctx, keepertest.Agent, second.PositionRef, "")
	require.NoError(t, err)
}

func TestClose_FeeBaseIncludesClaimedFees(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	f.Pool.ConvertBins(f.Ctx, pos.PositionRef, 101, 105, math.NewInt(1_000))
	f.Pool.AccrueFees(f.Ctx, pos.PositionRef, math.NewInt(400), math.NewInt(1_000))

	payout, err := f.Keeper.UserClose(f.Ctx, keepertest.Alice, pos.PositionRef)
	require.NoError(t, err)

	// 5 000 converted + 1 000 trading fees on the converted side
	requireAmount(t, 6_000, payout.Delta)
	requireAmount(t, 18, payout.Fee)
	requireAmount(t, 5_982, f.Balance(keepertest.Alice, keepertest.TestDenomY))
	// deposit side plus its trading fees are never charged
	requireAmount(t, 5_400, f.Balance(keepertest.Alice, keepertest.TestDenomX))
	requireAmount(t, 0, f.Balance(types.RoverAuthorityAddress(), keepertest.TestDenomX))
}

func TestClose_ClearsMatchingEmergencyTarget(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	require.NoError(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Authority.String(), pos.PositionRef))

	_, err := f.Keeper.UserClose(f.Ctx, keepertest.Alice, pos.PositionRef)
	require.NoError(t, err)

	cfg, err := f.Keeper.GetConfig(f.Ctx)
	require.NoError(t, err)
	require.False(t, cfg.HasPendingEmergencyClose())
	require.Zero(t, cfg.EmergencyCloseEffectiveAt)
}

func TestClose_FailedPayoutRollsBack(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := openConvertedSell(t, f, keepertest.Alice)
	f.Bank.FailTransfersTo(keepertest.Alice)

	_, err := f.MsgServer().UserClose(f.Ctx, &types.MsgUserClose{
		Owner:       keepertest.Alice.String(),
		PositionRef: pos.PositionRef,
	})
	require.ErrorIs(t, err, types.ErrTransfer)

	require.True(t, f.Keeper.HasPosition(f.Ctx, pos.PositionRef))
	_, err = f.Keeper.GetVault(f.Ctx, pos.PositionRef)
	require.NoError(t, err)
	closed, _ := f.Pool.IsClosed(f.Ctx, pos.PositionRef)
	require.False(t, closed)
	_, y := f.Pool.BinLiquidity(f.Ctx, pos.PositionRef, 110)
	requireAmount(t, 1_000, y)
	requireNoEvent(t, f.Ctx, types.EventTypePositionClosed)
}

func TestClose_PoolFailureAborts(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := openConvertedSell(t, f, keepertest.Alice)
	f.Pool.SetBroken(true)

	_, err := f.MsgServer().UserClose(f.Ctx, &types.MsgUserClose{
		Owner:       keepertest.Alice.String(),
		PositionRef: pos.PositionRef,
	})
	require.ErrorIs(t, err, types.ErrPoolService)
	require.True(t, f.Keeper.HasPosition(f.Ctx, pos.PositionRef))
}
