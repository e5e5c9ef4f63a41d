package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/monkearmy/binfarm/x/binfarm/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// Test pool defaults
const (
	TestPoolRef  = "pool-x-y"
	TestDenomX   = "ubase"
	TestDenomY   = "uquote"
	TestBinStep  = uint32(25)
	TestActive   = int32(100)
	TestHeight   = int64(1_000)
	TestUnixTime = int64(1_700_000_000)
)

// Test accounts
var (
	Authority   = sdk.AccAddress([]byte("authority___________"))
	Agent       = sdk.AccAddress([]byte("agent_______________"))
	RevenueDest = sdk.AccAddress([]byte("revenue_dest________"))
	Alice       = sdk.AccAddress([]byte("alice_______________"))
	Bob         = sdk.AccAddress([]byte("bob_________________"))
	KeeperBot   = sdk.AccAddress([]byte("keeper_bot__________"))
)

// BinfarmFixture bundles a keeper with its store-backed collaborators
type BinfarmFixture struct {
	Keeper keeper.Keeper
	Ctx    sdk.Context
	Bank   *MockBankKeeper
	Pool   *MockPoolService

	// GovAuthority signs MsgUpdateParams
	GovAuthority string
}

// BinfarmKeeper creates a test keeper for the binfarm module with a mock bank,
// memo log and bin pool, all mounted in the same multistore so cache context
// rollbacks cover them.
func BinfarmKeeper(t testing.TB) *BinfarmFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey("mockbank")
	poolKey := storetypes.NewKVStoreKey("mockpool")

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(poolKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	bank := NewMockBankKeeper(bankKey)
	pool := NewMockPoolService(poolKey, bank)
	govAuthority := sdk.AccAddress(types.DefaultGovAuthority()).String()

	k := keeper.NewKeeper(storeKey, bank, bank, pool, govAuthority)

	header := cmtproto.Header{Height: TestHeight, Time: time.Unix(TestUnixTime, 0).UTC()}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())

	genState := types.DefaultGenesis()
	genState.Config = types.DefaultProtocolConfig(Authority, Agent)
	genState.RoverAuthority = types.DefaultRoverAuthority(RevenueDest)
	require.NoError(t, k.InitGenesis(ctx, *genState))

	pool.CreatePool(ctx, TestPoolRef, types.PoolState{
		ActiveBin: TestActive,
		BinStep:   TestBinStep,
		DenomX:    TestDenomX,
		DenomY:    TestDenomY,
	})

	return &BinfarmFixture{
		Keeper:       *k,
		Ctx:          ctx,
		Bank:         bank,
		Pool:         pool,
		GovAuthority: govAuthority,
	}
}

// Fund mints coins to addr
func (f *BinfarmFixture) Fund(addr sdk.AccAddress, coins ...sdk.Coin) {
	f.Bank.Mint(f.Ctx, addr, coins...)
}

// Balance returns addr's balance of denom
func (f *BinfarmFixture) Balance(addr sdk.AccAddress, denom string) math.Int {
	return f.Bank.GetBalance(f.Ctx, addr, denom).Amount
}

// AdvanceBlocks moves the context forward by n blocks and n*6 seconds
func (f *BinfarmFixture) AdvanceBlocks(n int64) {
	f.Ctx = f.Ctx.WithBlockHeight(f.Ctx.BlockHeight() + n).
		WithBlockTime(f.Ctx.BlockTime().Add(time.Duration(n) * 6 * time.Second))
}

// AdvanceTime moves block time forward without changing height
func (f *BinfarmFixture) AdvanceTime(d time.Duration) {
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(d))
}

// MsgServer returns the atomic message server over the fixture keeper
func (f *BinfarmFixture) MsgServer() types.MsgServer {
	return keeper.NewMsgServerImpl(f.Keeper)
}

// OpenSell funds owner and opens a Sell position of amount above the active bin
func (f *BinfarmFixture) OpenSell(t testing.TB, owner sdk.AccAddress, amount int64, minBin, maxBin int32) types.Position {
	f.Fund(owner, sdk.NewInt64Coin(TestDenomX, amount))
	resp, err := f.MsgServer().OpenPosition(f.Ctx, types.NewMsgOpenPosition(owner.String(), TestPoolRef, math.NewInt(amount), minBin, maxBin, 5))
	require.NoError(t, err)
	require.Equal(t, types.SideSell, resp.Side)
	pos, err := f.Keeper.GetPosition(f.Ctx, resp.PositionRef)
	require.NoError(t, err)
	return pos
}

// OpenBuy funds owner and opens a Buy position of amount at or below the active bin
func (f *BinfarmFixture) OpenBuy(t testing.TB, owner sdk.AccAddress, amount int64, minBin, maxBin int32) types.Position {
	f.Fund(owner, sdk.NewInt64Coin(TestDenomY, amount))
	resp, err := f.MsgServer().OpenPosition(f.Ctx, types.NewMsgOpenPosition(owner.String(), TestPoolRef, math.NewInt(amount), minBin, maxBin, 5))
	require.NoError(t, err)
	require.Equal(t, types.SideBuy, resp.Side)
	pos, err := f.Keeper.GetPosition(f.Ctx, resp.PositionRef)
	require.NoError(t, err)
	return pos
}

// AgentHeartbeat marks the agent as active at the current height
func (f *BinfarmFixture) AgentHeartbeat(t testing.TB) {
	cfg, err := f.Keeper.GetConfig(f.Ctx)
	require.NoError(t, err)
	h := uint64(f.Ctx.BlockHeight())
	cfg.LastAgentHarvestAt, cfg.LastAgentCloseAt = h, h
	require.NoError(t, f.Keeper.SetConfig(f.Ctx, cfg))
}
