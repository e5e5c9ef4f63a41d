package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/monkearmy/binfarm/testutil/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

func requireAmount(t testing.TB, expected int64, got math.Int) {
	t.Helper()
	require.False(t, got.IsNil(), "amount is nil")
	require.Equal(t, math.NewInt(expected).String(), got.String())
}

func requireEvent(t testing.TB, ctx sdk.Context, eventType string) sdk.Event {
	t.Helper()
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == eventType {
			return ev
		}
	}
	require.Failf(t, "event not emitted", "%s", eventType)
	return sdk.Event{}
}

func requireNoEvent(t testing.TB, ctx sdk.Context, eventType string) {
	t.Helper()
	for _, ev := range ctx.EventManager().Events() {
		require.NotEqual(t, eventType, ev.Type)
	}
}

func eventAttr(ev sdk.Event, key string) string {
	for _, attr := range ev.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

func setPaused(t testing.TB, f *keepertest.BinfarmFixture, paused bool) {
	t.Helper()
	require.NoError(t, f.Keeper.SetPaused(f.Ctx, keepertest.Authority.String(), paused))
}

func binRange(from, to int32) []int32 {
	ids := make([]int32, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

// openConvertedSell opens a 10 bin Sell position of 10 000 over [101,110] and
// converts every bin at 1:1.
func openConvertedSell(t testing.TB, f *keepertest.BinfarmFixture, owner sdk.AccAddress) types.Position {
	t.Helper()
	pos := f.OpenSell(t, owner, 10_000, 101, 110)
	f.Pool.ConvertBins(f.Ctx, pos.PositionRef, 101, 110, math.NewInt(1_000))
	return pos
}
