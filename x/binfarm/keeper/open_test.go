package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	keepertest "github.com/monkearmy/binfarm/testutil/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

func TestOpenPosition_SellAboveActiveBin(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	f.Fund(keepertest.Alice, sdk.NewInt64Coin(keepertest.TestDenomX, 10_000))

	pos, vault, err := f.Keeper.OpenPosition(f.Ctx, keepertest.Alice, keepertest.TestPoolRef, math.NewInt(10_000), 101, 110, 5)
	require.NoError(t, err)

	require.Equal(t, types.SideSell, pos.Side)
	require.Equal(t, "binfarm-1", pos.PositionRef)
	require.Equal(t, types.VaultAddress(pos.PositionRef), vault.Address)
	require.True(t, pos.HarvestedAmount.IsZero())
	require.Equal(t, keepertest.TestUnixTime, pos.CreatedAt)
	require.False(t, pos.Rover)

	// deposit is fully deployed; nothing stays with the owner or the vault
	require.True(t, f.Balance(keepertest.Alice, keepertest.TestDenomX).IsZero())
	require.True(t, f.Balance(vault.Address, keepertest.TestDenomX).IsZero())
	requireAmount(t, 10_000, f.Balance(keepertest.PoolAddress(keepertest.TestPoolRef), keepertest.TestDenomX))

	x, _ := f.Pool.BinLiquidity(f.Ctx, pos.PositionRef, 101)
	requireAmount(t, 1_000, x)

	owner, err := f.Pool.PositionOwner(f.Ctx, pos.PositionRef)
	require.NoError(t, err)
	require.Equal(t, vault.Address, owner)

	cfg, err := f.Keeper.GetConfig(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cfg.TotalPositions)
	requireAmount(t, 10_000, cfg.TotalVolume)

	requireEvent(t, f.Ctx, types.EventTypePositionOpened)
}

func TestOpenPosition_BuyAtOrBelowActiveBin(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)

	tests := []struct {
		name   string
		minBin int32
		maxBin int32
	}{
		{"entirely below", 80, 90},
		{"ending at active", 91, 100},
		{"straddling active", 95, 105},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := f.OpenBuy(t, keepertest.Alice, 10_000, tc.minBin, tc.maxBin)
			require.Equal(t, types.SideBuy, pos.Side)
			require.Equal(t, tc.minBin, pos.MinBin)
			require.Equal(t, tc.maxBin, pos.MaxBin)
		})
	}

	positions, err := f.Keeper.GetPositionsByOwner(f.Ctx, keepertest.Alice)
	require.NoError(t, err)
	require.Len(t, positions, 3)
}

func TestOpenPosition_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *keepertest.BinfarmFixture)
		amount   int64
		minBin   int32
		maxBin   int32
		slippage uint32
		err      error
	}{
		{
			name:   "paused",
			setup:  func(t *testing.T, f *keepertest.BinfarmFixture) { setPaused(t, f, true) },
			amount: 10_000, minBin: 101, maxBin: 110,
			err: types.ErrPaused,
		},
		{
			name:   "zero amount",
			amount: 0, minBin: 101, maxBin: 110,
			err: types.ErrZeroAmount,
		},
		{
			name:   "below minimum",
			amount: 9_999, minBin: 101, maxBin: 110,
			err: types.ErrPositionTooSmall,
		},
		{
			name:   "inverted range",
			amount: 10_000, minBin: 110, maxBin: 101,
			err: types.ErrInvalidBinRange,
		},
		{
			name:   "too wide",
			amount: 10_000, minBin: 101, maxBin: 171,
			err: types.ErrPositionTooWide,
		},
		{
			name:   "slippage above cap",
			amount: 10_000, minBin: 101, maxBin: 110, slippage: types.MaxActiveBinSlippage + 1,
			err: types.ErrInvalidSlippage,
		},
		{
			name:   "program mismatch",
			setup:  func(_ *testing.T, f *keepertest.BinfarmFixture) { f.Pool.SetProgramID("impostor") },
			amount: 10_000, minBin: 101, maxBin: 110,
			err: types.ErrInvalidProgram,
		},
		{
			name: "active bin out of range",
			setup: func(_ *testing.T, f *keepertest.BinfarmFixture) {
				f.Pool.SetActiveBin(f.Ctx, keepertest.TestPoolRef, types.MaxBinID)
			},
			amount: 10_000, minBin: 101, maxBin: 110,
			err: types.ErrInvalidPool,
		},
		{
			name:   "pool unavailable",
			setup:  func(_ *testing.T, f *keepertest.BinfarmFixture) { f.Pool.SetBroken(true) },
			amount: 10_000, minBin: 101, maxBin: 110,
			err: types.ErrPoolService,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := keepertest.BinfarmKeeper(t)
			if tc.setup != nil {
				tc.setup(t, f)
			}
			f.Fund(keepertest.Alice, sdk.NewInt64Coin(keepertest.TestDenomX, 100_000))

			_, _, err := f.Keeper.OpenPosition(f.Ctx, keepertest.Alice, keepertest.TestPoolRef, math.NewInt(tc.amount), tc.minBin, tc.maxBin, tc.slippage)
			require.ErrorIs(t, err, tc.err)
			require.False(t, f.Keeper.HasPosition(f.Ctx, "binfarm-1"))
		})
	}
}

func TestOpenPosition_MaxWidthAccepted(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 70_000, 101, 170)
	require.Equal(t, uint32(types.MaxPositionWidth), pos.Width())
}

func TestOpenPosition_InsufficientFundsRollsBack(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	f.Fund(keepertest.Alice, sdk.NewInt64Coin(keepertest.TestDenomX, 5_000))

	_, err := f.MsgServer().OpenPosition(f.Ctx, types.NewMsgOpenPosition(keepertest.Alice.String(), keepertest.TestPoolRef, math.NewInt(10_000), 101, 110, 5))
	require.ErrorIs(t, err, types.ErrTransfer)

	require.False(t, f.Keeper.HasPosition(f.Ctx, "binfarm-1"))
	require.Equal(t, uint64(1), f.Keeper.GetNextPositionID(f.Ctx))
	closed, _ := f.Pool.IsClosed(f.Ctx, "binfarm-1")
	require.False(t, closed)
	_, err = f.Pool.PositionOwner(f.Ctx, "binfarm-1")
	require.Error(t, err, "pool position must not survive a failed open")
	requireAmount(t, 5_000, f.Balance(keepertest.Alice, keepertest.TestDenomX))
}

func TestOpenPosition_OpenedCounterTracksCommittedOpens(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	opened := keeper.NewBinfarmMetrics().PositionsOpened.WithLabelValues(types.SideSell.String(), "false")
	before := promtestutil.ToFloat64(opened)

	f.Fund(keepertest.Alice, sdk.NewInt64Coin(keepertest.TestDenomX, 5_000))
	_, err := f.MsgServer().OpenPosition(f.Ctx, types.NewMsgOpenPosition(keepertest.Alice.String(), keepertest.TestPoolRef, math.NewInt(10_000), 101, 110, 5))
	require.ErrorIs(t, err, types.ErrTransfer)
	require.Equal(t, before, promtestutil.ToFloat64(opened))

	f.OpenSell(t, keepertest.Bob, 10_000, 101, 110)
	require.Equal(t, before+1, promtestutil.ToFloat64(opened))
}

func TestOpenPosition_RefsAreSequential(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	first := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	second := f.OpenSell(t, keepertest.Bob, 10_000, 101, 110)

	require.Equal(t, "binfarm-1", first.PositionRef)
	require.Equal(t, "binfarm-2", second.PositionRef)
	require.NotEqual(t, types.VaultAddress(first.PositionRef), types.VaultAddress(second.PositionRef))
}
