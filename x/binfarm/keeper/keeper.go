package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// Keeper of the binfarm store
type Keeper struct {
	storeKey    storetypes.StoreKey
	bankKeeper  types.BankKeeper
	memoKeeper  types.MemoKeeper
	poolService types.PoolService
	metrics     *BinfarmMetrics

	// authority is the account allowed to update module params (x/gov by default)
	authority string
}

// NewKeeper creates a new binfarm Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	memoKeeper types.MemoKeeper,
	poolService types.PoolService,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(errors.Wrapf(err, "invalid binfarm authority address %q", authority))
	}

	return &Keeper{
		storeKey:    key,
		bankKeeper:  bankKeeper,
		memoKeeper:  memoKeeper,
		poolService: poolService,
		metrics:     NewBinfarmMetrics(),
		authority:   authority,
	}
}

// GetAuthority returns the module's governance authority
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the binfarm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// getRecord decodes the JSON record at key into out; ok is false when absent
func (k Keeper) getRecord(ctx context.Context, key []byte, out any) (bool, error) {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return false, nil
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return true, errors.Wrapf(types.ErrInvalidConfig, "corrupt record at %X: %s", key, err)
	}
	return true, nil
}

// setRecord JSON-encodes v at key
func (k Keeper) setRecord(ctx context.Context, key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(types.ErrInvalidConfig, "encode record at %X: %s", key, err)
	}
	k.getStore(ctx).Set(key, bz)
	return nil
}
