package keeper

import (
	"context"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// GetVault loads the vault bound to ref. The stored address is re-derived and
// a record bound to any other account is rejected.
func (k Keeper) GetVault(ctx context.Context, ref string) (types.Vault, error) {
	var vault types.Vault
	found, err := k.getRecord(ctx, types.VaultKey(ref), &vault)
	if err != nil {
		return vault, err
	}
	if !found {
		return vault, errors.Wrapf(types.ErrVaultMismatch, "no vault for %s", ref)
	}
	if vault.PositionRef != ref {
		return vault, errors.Wrapf(types.ErrVaultMismatch, "vault at %s is bound to %s", ref, vault.PositionRef)
	}
	if err := vault.Validate(); err != nil {
		return vault, err
	}
	return vault, nil
}

// SetVault stores a vault record
func (k Keeper) SetVault(ctx context.Context, vault types.Vault) error {
	if err := vault.Validate(); err != nil {
		return err
	}
	return k.setRecord(ctx, types.VaultKey(vault.PositionRef), vault)
}

// GetAllVaults returns every stored vault
func (k Keeper) GetAllVaults(ctx context.Context) ([]types.Vault, error) {
	vaults := []types.Vault{}
	err := k.IteratePositions(ctx, func(pos types.Position) (bool, error) {
		vault, err := k.GetVault(ctx, pos.PositionRef)
		if err != nil {
			return true, err
		}
		vaults = append(vaults, vault)
		return false, nil
	})
	return vaults, err
}

// vaultBalances reads both token balances held by a vault
func (k Keeper) vaultBalances(ctx context.Context, vault types.Vault) (x, y math.Int) {
	x = k.bankKeeper.GetBalance(ctx, vault.Address, vault.DenomX).Amount
	y = k.bankKeeper.GetBalance(ctx, vault.Address, vault.DenomY).Amount
	return x, y
}

// verifyPoolOwner checks the pool service reports the vault as the owner of
// its position.
func (k Keeper) verifyPoolOwner(ctx context.Context, vault types.Vault) error {
	owner, err := k.poolService.PositionOwner(ctx, vault.PositionRef)
	if err != nil {
		return errors.Wrapf(types.ErrPoolService, "position owner: %s", err)
	}
	if !owner.Equals(vault.Address) {
		return errors.Wrapf(types.ErrInvalidOwner, "pool position %s owned by %s, expected vault %s", vault.PositionRef, owner, vault.Address)
	}
	return nil
}

// verifyProgram checks the wired pool service is the one params expect
func (k Keeper) verifyProgram(params types.Params) error {
	if id := k.poolService.ProgramID(); id != params.PoolProgram {
		return errors.Wrapf(types.ErrInvalidProgram, "got %q, expected %q", id, params.PoolProgram)
	}
	return nil
}

// signedTransfer moves amount of denom out of a module-controlled account,
// recording memo first. Zero amounts are skipped.
func (k Keeper) signedTransfer(ctx context.Context, signer, recipient sdk.AccAddress, denom string, amount math.Int, memo string) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.memoKeeper.WriteTransferMemo(ctx, signer, recipient, memo); err != nil {
		return errors.Wrapf(types.ErrTransfer, "memo: %s", err)
	}
	if err := k.bankKeeper.SendCoins(ctx, signer, recipient, sdk.NewCoins(sdk.NewCoin(denom, amount))); err != nil {
		return errors.Wrapf(types.ErrTransfer, "%s%s to %s: %s", amount, denom, recipient, err)
	}
	return nil
}

// drainVault pays every balance the vault holds to recipient
func (k Keeper) drainVault(ctx context.Context, vault types.Vault, recipient sdk.AccAddress, memo string) (x, y math.Int, err error) {
	x, y = k.vaultBalances(ctx, vault)
	if err := k.signedTransfer(ctx, vault.Address, recipient, vault.DenomX, x, memo); err != nil {
		return x, y, err
	}
	if err := k.signedTransfer(ctx, vault.Address, recipient, vault.DenomY, y, memo); err != nil {
		return x, y, err
	}
	return x, y, nil
}
