package keeper

import (
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// RegisterInvariants registers all binfarm invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "vault-binding", VaultBindingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "config-bounds", ConfigBoundsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "owner-index", OwnerIndexInvariant(k))
}

// AllInvariants runs all invariants of the binfarm module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := VaultBindingInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = ConfigBoundsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return OwnerIndexInvariant(k)(ctx)
	}
}

// VaultBindingInvariant checks every position has exactly one vault derived
// from its ref, and no vault exists without a position.
func VaultBindingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			count  int
			refs   = map[string]struct{}{}
			vaults int
		)

		err := k.IteratePositions(ctx, func(pos types.Position) (bool, error) {
			refs[pos.PositionRef] = struct{}{}
			if _, err := k.GetVault(ctx, pos.PositionRef); err != nil {
				count++
				msg += fmt.Sprintf("position %s: %s\n", pos.PositionRef, err)
			}
			return false, nil
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate positions: %s\n", err)
		}

		iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.VaultKeyPrefix)
		defer iterator.Close()
		for ; iterator.Valid(); iterator.Next() {
			vaults++
			var vault types.Vault
			if err := json.Unmarshal(iterator.Value(), &vault); err != nil {
				count++
				msg += fmt.Sprintf("corrupt vault record %X\n", iterator.Key())
				continue
			}
			if _, ok := refs[vault.PositionRef]; !ok {
				count++
				msg += fmt.Sprintf("vault %s has no position\n", vault.PositionRef)
			}
		}

		broken := count != 0
		if broken {
			k.Logger(ctx).Error("vault binding invariant broken", "count", count, "positions", len(refs), "vaults", vaults)
		}
		return sdk.FormatInvariant(
			types.ModuleName, "vault-binding",
			fmt.Sprintf("found %d vault binding violations\n%s", count, msg),
		), broken
	}
}

// ConfigBoundsInvariant checks the stored config is within its caps and any
// pending emergency target still exists.
func ConfigBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		cfg, err := k.GetConfig(ctx)
		if err == nil {
			err = cfg.Validate()
		}
		if err == nil && cfg.HasPendingEmergencyClose() && !k.HasPosition(ctx, cfg.PendingEmergencyCloseTarget) {
			err = fmt.Errorf("emergency close target %s does not exist", cfg.PendingEmergencyCloseTarget)
		}

		broken := err != nil
		msg := "config within bounds"
		if broken {
			msg = err.Error()
			k.Logger(ctx).Error("config bounds invariant broken", "error", msg)
		}
		return sdk.FormatInvariant(types.ModuleName, "config-bounds", msg), broken
	}
}

// OwnerIndexInvariant checks the owner index matches the stored positions
func OwnerIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg     string
			count   int
			indexed int
		)
		store := k.getStore(ctx)
		positions := 0

		err := k.IteratePositions(ctx, func(pos types.Position) (bool, error) {
			positions++
			if !store.Has(types.OwnerIndexKey(pos.Owner, pos.PositionRef)) {
				count++
				msg += fmt.Sprintf("position %s missing from owner index\n", pos.PositionRef)
			}
			return false, nil
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate positions: %s\n", err)
		}

		iterator := storetypes.KVStorePrefixIterator(store, types.OwnerIndexPrefix)
		defer iterator.Close()
		for ; iterator.Valid(); iterator.Next() {
			indexed++
		}
		if indexed != positions {
			count++
			msg += fmt.Sprintf("%d index entries for %d positions\n", indexed, positions)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "owner-index",
			fmt.Sprintf("found %d owner index violations\n%s", count, msg),
		), broken
	}
}
