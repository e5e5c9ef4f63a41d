package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// GetPosition returns the position stored under ref
func (k Keeper) GetPosition(ctx context.Context, ref string) (types.Position, error) {
	var pos types.Position
	found, err := k.getRecord(ctx, types.PositionKey(ref), &pos)
	if err != nil {
		return pos, err
	}
	if !found {
		return pos, errors.Wrapf(types.ErrPositionNotFound, "%s", ref)
	}
	return pos, nil
}

// HasPosition reports whether a position exists under ref
func (k Keeper) HasPosition(ctx context.Context, ref string) bool {
	return k.getStore(ctx).Has(types.PositionKey(ref))
}

// SetPosition stores a position and its owner index entry
func (k Keeper) SetPosition(ctx context.Context, pos types.Position) error {
	if err := pos.Validate(); err != nil {
		return err
	}
	if err := k.setRecord(ctx, types.PositionKey(pos.PositionRef), pos); err != nil {
		return err
	}
	k.getStore(ctx).Set(types.OwnerIndexKey(pos.Owner, pos.PositionRef), []byte{0x01})
	return nil
}

// deletePosition removes a position with its vault record and owner index entry
func (k Keeper) deletePosition(ctx context.Context, pos types.Position) {
	store := k.getStore(ctx)
	store.Delete(types.PositionKey(pos.PositionRef))
	store.Delete(types.VaultKey(pos.PositionRef))
	store.Delete(types.OwnerIndexKey(pos.Owner, pos.PositionRef))
}

// IteratePositions calls cb for every position until cb returns true
func (k Keeper) IteratePositions(ctx context.Context, cb func(types.Position) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PositionKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pos types.Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			return errors.Wrapf(types.ErrInvalidConfig, "corrupt position record: %s", err)
		}
		stop, err := cb(pos)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// GetAllPositions returns every stored position
func (k Keeper) GetAllPositions(ctx context.Context) ([]types.Position, error) {
	positions := []types.Position{}
	err := k.IteratePositions(ctx, func(pos types.Position) (bool, error) {
		positions = append(positions, pos)
		return false, nil
	})
	return positions, err
}

// GetPositionsByOwner resolves the owner index into position records
func (k Keeper) GetPositionsByOwner(ctx context.Context, owner sdk.AccAddress) ([]types.Position, error) {
	prefix := types.OwnerIndexPrefixFor(owner)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	positions := []types.Position{}
	for ; iterator.Valid(); iterator.Next() {
		ref := string(iterator.Key()[len(prefix):])
		pos, err := k.GetPosition(ctx, ref)
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, nil
}
