package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/monkearmy/binfarm/testutil/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

func TestInvariants_HealthyState(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	openConvertedSell(t, f, keepertest.Alice)
	closed := openConvertedSell(t, f, keepertest.Bob)
	f.OpenBuy(t, keepertest.Alice, 10_000, 95, 100)
	_, err := f.Keeper.UserClose(f.Ctx, keepertest.Bob, closed.PositionRef)
	require.NoError(t, err)

	msg, broken := keeper.AllInvariants(f.Keeper)(f.Ctx)
	require.False(t, broken, msg)
}

func TestVaultBindingInvariant_MissingVault(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	keeper.DeleteVaultRecordForTest(f.Keeper, f.Ctx, pos.PositionRef)

	msg, broken := keeper.VaultBindingInvariant(f.Keeper)(f.Ctx)
	require.True(t, broken)
	require.Contains(t, msg, pos.PositionRef)

	_, broken = keeper.AllInvariants(f.Keeper)(f.Ctx)
	require.True(t, broken)
}

func TestOwnerIndexInvariant_MissingEntry(t *testing.T) {
	f := keepertest.BinfarmKeeper(t)
	pos := f.OpenSell(t, keepertest.Alice, 10_000, 101, 110)
	keeper.DeleteOwnerIndexForTest(f.Keeper, f.Ctx, keepertest.Alice, pos.PositionRef)

	msg, broken := keeper.OwnerIndexInvariant(f.Keeper)(f.Ctx)
	require.True(t, broken)
	require.Contains(t, msg, "missing from owner index")

	_, broken = keeper.VaultBindingInvariant(f.Keeper)(f.Ctx)
	require.False(t, broken)
}

func TestConfigBoundsInvariant(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *types.ProtocolConfig)
	}{
		{
			name:   "fee above cap",
			mutate: func(cfg *types.ProtocolConfig) { cfg.FeeBps = types.MaxFeeBps + 1 },
		},
		{
			name:   "tip above cap",
			mutate: func(cfg *types.ProtocolConfig) { cfg.KeeperTipBps = types.MaxKeeperTipBps + 1 },
		},
		{
			name:   "staleness above cap",
			mutate: func(cfg *types.ProtocolConfig) { cfg.StalenessThreshold = types.MaxStalenessThreshold + 1 },
		},
		{
			name: "emergency target missing",
			mutate: func(cfg *types.ProtocolConfig) {
				cfg.PendingEmergencyCloseTarget = "binfarm-9"
				cfg.EmergencyCloseEffectiveAt = keepertest.TestUnixTime
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := keepertest.BinfarmKeeper(t)
			_, broken := keeper.ConfigBoundsInvariant(f.Keeper)(f.Ctx)
			require.False(t, broken)

			cfg, err := f.Keeper.GetConfig(f.Ctx)
			require.NoError(t, err)
			tc.mutate(&cfg)
			require.NoError(t, keeper.SetRawConfigForTest(f.Keeper, f.Ctx, cfg))

			_, broken = keeper.ConfigBoundsInvariant(f.Keeper)(f.Ctx)
			require.True(t, broken)
		})
	}
}
