package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the custody boundary: balances of derived accounts and
// transfers between them.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	BlockedAddr(addr sdk.AccAddress) bool
	IsSendEnabledCoins(ctx context.Context, coins ...sdk.Coin) error
}

// MemoKeeper records a human-readable memo ahead of a module-signed transfer.
type MemoKeeper interface {
	WriteTransferMemo(ctx context.Context, signer, recipient sdk.AccAddress, memo string) error
}

// PoolState is the pool service's view of a pool at the current height.
type PoolState struct {
	ActiveBin int32  `json:"active_bin"`
	BinStep   uint32 `json:"bin_step"`
	DenomX    string `json:"denom_x"`
	DenomY    string `json:"denom_y"`
}

// PoolService is the external bin-based AMM. Every call is made on behalf of
// owner, the vault (or rover authority) that the pool position belongs to.
// The keeper never caches anything it returns.
type PoolService interface {
	// ProgramID is the identity checked against params.pool_program
	ProgramID() string

	PoolState(ctx context.Context, poolRef string) (PoolState, error)

	// OpenRangePosition creates an empty range position under positionRef,
	// owned by owner.
	OpenRangePosition(ctx context.Context, poolRef, positionRef string, owner sdk.AccAddress, lowerBin int32, width uint32) error

	// AddLiquidityOneSided pulls amountX/amountY from owner into [lower, upper].
	AddLiquidityOneSided(ctx context.Context, positionRef string, owner sdk.AccAddress, amountX, amountY math.Int, lower, upper, activeBin int32, maxActiveBinSlippage uint32) error

	// RemoveLiquidityByRange withdraws bps of [from, to] into owner.
	RemoveLiquidityByRange(ctx context.Context, positionRef string, owner sdk.AccAddress, from, to int32, bps uint32) error

	// ClaimAccruedFees pays trading fees of [lower, upper] into owner.
	ClaimAccruedFees(ctx context.Context, positionRef string, owner sdk.AccAddress, lower, upper int32) error

	// ClosePosition deletes an emptied position, paying its rent deposit to rentReceiver.
	ClosePosition(ctx context.Context, positionRef string, owner, rentReceiver sdk.AccAddress) error

	// PositionOwner reports the account the pool considers the position owner.
	PositionOwner(ctx context.Context, positionRef string) (sdk.AccAddress, error)
}
