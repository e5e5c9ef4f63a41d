package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// DeleteVaultRecordForTest removes a vault record without touching its position.
func DeleteVaultRecordForTest(k Keeper, ctx sdk.Context, ref string) {
	k.getStore(ctx).Delete(types.VaultKey(ref))
}

// DeleteOwnerIndexForTest removes one owner index entry.
func DeleteOwnerIndexForTest(k Keeper, ctx sdk.Context, owner sdk.AccAddress, ref string) {
	k.getStore(ctx).Delete(types.OwnerIndexKey(owner, ref))
}

// SetRawConfigForTest stores a config without validating it.
func SetRawConfigForTest(k Keeper, ctx sdk.Context, cfg types.ProtocolConfig) error {
	return k.setRecord(ctx, types.ConfigKey, cfg)
}
