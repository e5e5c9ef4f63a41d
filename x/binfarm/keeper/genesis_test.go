package keeper_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/monkearmy/binfarm/testutil/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

func TestGenesis_ExportImportRoundTrip(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	sell := openConvertedSell(t, f, keepertest.Alice)
	f.OpenBuy(t, keepertest.Bob, 20_000, 91, 100)
	_, err := f.Keeper.HarvestBins(f.Ctx, keepertest.Agent, sell.PositionRef, binRange(101, 105), "")
	require.NoError(t, err)
	require.NoError(t, f.Keeper.ProposeFee(f.Ctx, keepertest.Authority.String(), 45))
	require.NoError(t, f.Keeper.ProposeEmergencyClose(f.Ctx, keepertest.Authority.String(), sell.PositionRef))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Positions, 2)
	require.Len(t, exported.Vaults, 2)
	require.Equal(t, uint64(3), exported.NextPositionID)

	restored := keepertest.BinfarmKeeper(t)
	require.NoError(t, restored.Keeper.InitGenesis(restored.Ctx, *exported))

	reexported, err := restored.Keeper.ExportGenesis(restored.Ctx)
	require.NoError(t, err)

	want, err := json.Marshal(exported)
	require.NoError(t, err)
	got, err := json.Marshal(reexported)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))

	// owner index and ref sequence are rebuilt
	positions, err := restored.Keeper.GetPositionsByOwner(restored.Ctx, keepertest.Bob)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	restored.Fund(keepertest.Alice, sdk.NewInt64Coin(keepertest.TestDenomX, 10_000))
	pos, _, err := restored.Keeper.OpenPosition(restored.Ctx, keepertest.Alice, keepertest.TestPoolRef, math.NewInt(10_000), 101, 110, 5)
	require.NoError(t, err)
	require.Equal(t, "binfarm-3", pos.PositionRef)
}

func TestGenesis_InvalidStateRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(gs *types.GenesisState)
	}{
		{
			name:   "zero position sequence",
			mutate: func(gs *types.GenesisState) { gs.NextPositionID = 0 },
		},
		{
			name:   "fee above cap",
			mutate: func(gs *types.GenesisState) { gs.Config.FeeBps = types.MaxFeeBps + 1 },
		},
		{
			name:   "position without vault",
			mutate: func(gs *types.GenesisState) { gs.Vaults = gs.Vaults[:0] },
		},
		{
			name:   "duplicate position",
			mutate: func(gs *types.GenesisState) { gs.Positions = append(gs.Positions, gs.Positions[0]) },
		},
		{
			name:   "sequence reuses an imported ref",
			mutate: func(gs *types.GenesisState) { gs.NextPositionID = 1 },
		},
		{
			name: "non-canonical ref",
			mutate: func(gs *types.GenesisState) {
				gs.Positions[0].PositionRef = "binfarm-01"
				gs.Vaults[0] = types.NewVault("binfarm-01", gs.Vaults[0].DenomX, gs.Vaults[0].DenomY)
			},
		},
		{
			name:   "dangling emergency target",
			mutate: func(gs *types.GenesisState) { gs.Config.PendingEmergencyCloseTarget = "binfarm-77" },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := keepertest.BinfarmKeeper(t)
			f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
			gs, err := f.Keeper.ExportGenesis(f.Ctx)
			require.NoError(t, err)

			tc.mutate(gs)
			require.Error(t, gs.Validate())

			fresh := keepertest.BinfarmKeeper(t)
			require.Error(t, fresh.Keeper.InitGenesis(fresh.Ctx, *gs))
		})
	}
}

func TestDefaultGenesisIsValid(t *testing.T) {
	require.NoError(t, types.DefaultGenesis().Validate())
}
