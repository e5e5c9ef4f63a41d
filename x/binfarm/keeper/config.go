package keeper

import (
	"context"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// GetConfig loads the protocol config singleton
func (k Keeper) GetConfig(ctx context.Context) (types.ProtocolConfig, error) {
	var cfg types.ProtocolConfig
	found, err := k.getRecord(ctx, types.ConfigKey, &cfg)
	if err != nil {
		return cfg, err
	}
	if !found {
		return cfg, errors.Wrap(types.ErrInvalidConfig, "protocol config not initialized")
	}
	return cfg, nil
}

// SetConfig validates and stores the protocol config singleton
func (k Keeper) SetConfig(ctx context.Context, cfg types.ProtocolConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return k.setRecord(ctx, types.ConfigKey, cfg)
}

// requireAuthority loads the config and checks signer is the protocol authority
func (k Keeper) requireAuthority(ctx context.Context, signer string) (types.ProtocolConfig, sdk.AccAddress, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return cfg, nil, err
	}
	addr, err := sdk.AccAddressFromBech32(signer)
	if err != nil {
		return cfg, nil, errors.Wrap(types.ErrInvalidAddress, err.Error())
	}
	if !addr.Equals(cfg.Authority) {
		return cfg, nil, errors.Wrapf(types.ErrUnauthorized, "%s is not the protocol authority", signer)
	}
	return cfg, addr, nil
}

// nextPositionRef allocates the external reference for a new position
func (k Keeper) nextPositionRef(ctx context.Context) string {
	store := k.getStore(ctx)
	seq := uint64(1)
	if bz := store.Get(types.PositionSeqKey); bz != nil {
		seq = sdk.BigEndianToUint64(bz)
	}
	store.Set(types.PositionSeqKey, sdk.Uint64ToBigEndian(seq+1))
	return types.PositionRefFor(seq)
}

// GetNextPositionID returns the sequence the next position will be allocated
func (k Keeper) GetNextPositionID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.PositionSeqKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

// SetNextPositionID stores the position sequence
func (k Keeper) SetNextPositionID(ctx context.Context, seq uint64) {
	k.getStore(ctx).Set(types.PositionSeqKey, sdk.Uint64ToBigEndian(seq))
}

// emitAdminConfigChanged emits admin_config_changed for a single field
func emitAdminConfigChanged(ctx context.Context, field, oldValue, newValue string) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAdminConfigChanged,
			sdk.NewAttribute(types.AttributeKeyField, field),
			sdk.NewAttribute(types.AttributeKeyOldValue, oldValue),
			sdk.NewAttribute(types.AttributeKeyNewValue, newValue),
		),
	)
}
