package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

// MockBankKeeper is a store-backed bank so balances roll back with the
// surrounding cache context.
type MockBankKeeper struct {
	storeKey storetypes.StoreKey

	blocked      map[string]bool
	sendDisabled map[string]bool
	failTo       map[string]bool
}

// NewMockBankKeeper creates a bank over its own store key
func NewMockBankKeeper(key storetypes.StoreKey) *MockBankKeeper {
	return &MockBankKeeper{
		storeKey:     key,
		blocked:      map[string]bool{},
		sendDisabled: map[string]bool{},
		failTo:       map[string]bool{},
	}
}

var (
	balancePrefix = []byte{0x01}
	memoPrefix    = []byte{0x02}
	memoSeqKey    = []byte{0x03}
)

func balanceKey(addr sdk.AccAddress, denom string) []byte {
	key := append([]byte{}, balancePrefix...)
	key = append(key, address.MustLengthPrefix(addr)...)
	return append(key, []byte(denom)...)
}

func (b *MockBankKeeper) store(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(b.storeKey)
}

// GetBalance returns the balance of denom held by addr
func (b *MockBankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := b.store(ctx).Get(balanceKey(addr, denom))
	if bz == nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	amount, ok := math.NewIntFromString(string(bz))
	if !ok {
		panic(fmt.Sprintf("corrupt balance for %s", addr))
	}
	return sdk.NewCoin(denom, amount)
}

func (b *MockBankKeeper) setBalance(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) {
	if coin.Amount.IsZero() {
		b.store(ctx).Delete(balanceKey(addr, coin.Denom))
		return
	}
	b.store(ctx).Set(balanceKey(addr, coin.Denom), []byte(coin.Amount.String()))
}

// SendCoins moves coins between accounts, failing on insufficient funds
func (b *MockBankKeeper) SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if b.failTo[to.String()] {
		return fmt.Errorf("transfer to %s rejected", to)
	}
	for _, coin := range amt {
		if b.sendDisabled[coin.Denom] {
			return fmt.Errorf("%s transfers are currently disabled", coin.Denom)
		}
		balance := b.GetBalance(ctx, from, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return fmt.Errorf("insufficient funds: %s < %s", balance, coin)
		}
		b.setBalance(ctx, from, balance.Sub(coin))
		b.setBalance(ctx, to, b.GetBalance(ctx, to, coin.Denom).Add(coin))
	}
	return nil
}

// BlockedAddr reports whether addr may not receive funds
func (b *MockBankKeeper) BlockedAddr(addr sdk.AccAddress) bool {
	return b.blocked[addr.String()]
}

// IsSendEnabledCoins fails for any denom that has been disabled
func (b *MockBankKeeper) IsSendEnabledCoins(_ context.Context, coins ...sdk.Coin) error {
	for _, coin := range coins {
		if b.sendDisabled[coin.Denom] {
			return fmt.Errorf("%s transfers are currently disabled", coin.Denom)
		}
	}
	return nil
}

// Mint credits coins to addr
func (b *MockBankKeeper) Mint(ctx context.Context, addr sdk.AccAddress, coins ...sdk.Coin) {
	for _, coin := range coins {
		b.setBalance(ctx, addr, b.GetBalance(ctx, addr, coin.Denom).Add(coin))
	}
}

// Block marks addr as unable to receive funds
func (b *MockBankKeeper) Block(addr sdk.AccAddress) {
	b.blocked[addr.String()] = true
}

// DisableSend disables transfers of denom
func (b *MockBankKeeper) DisableSend(denom string) {
	b.sendDisabled[denom] = true
}

// FailTransfersTo makes every transfer to addr fail
func (b *MockBankKeeper) FailTransfersTo(addr sdk.AccAddress) {
	b.failTo[addr.String()] = true
}

// WriteTransferMemo records a memo in the store; the mock bank doubles as
// the memo keeper so memos roll back with balances.
func (b *MockBankKeeper) WriteTransferMemo(ctx context.Context, signer, recipient sdk.AccAddress, memo string) error {
	store := b.store(ctx)
	seq := uint64(0)
	if bz := store.Get(memoSeqKey); bz != nil {
		seq = sdk.BigEndianToUint64(bz)
	}
	store.Set(memoSeqKey, sdk.Uint64ToBigEndian(seq+1))

	key := append(append([]byte{}, memoPrefix...), sdk.Uint64ToBigEndian(seq)...)
	store.Set(key, []byte(fmt.Sprintf("%s->%s: %s", signer, recipient, memo)))
	return nil
}

// Memos returns every recorded memo in write order
func (b *MockBankKeeper) Memos(ctx context.Context) []string {
	iterator := storetypes.KVStorePrefixIterator(b.store(ctx), memoPrefix)
	defer iterator.Close()

	memos := []string{}
	for ; iterator.Valid(); iterator.Next() {
		memos = append(memos, string(iterator.Value()))
	}
	return memos
}
