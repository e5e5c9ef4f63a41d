package types

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Vault binds a derived custody account to a single position. DenomX and
// DenomY are recorded on open so the vault can be drained without the pool.
type Vault struct {
	Version     uint32         `json:"version"`
	PositionRef string         `json:"position_ref"`
	Address     sdk.AccAddress `json:"address"`
	DenomX      string         `json:"denom_x"`
	DenomY      string         `json:"denom_y"`
}

// NewVault derives the vault for ref
func NewVault(ref, denomX, denomY string) Vault {
	return Vault{
		Version:     1,
		PositionRef: ref,
		Address:     VaultAddress(ref),
		DenomX:      denomX,
		DenomY:      denomY,
	}
}

// Validate re-derives the vault address and rejects a record bound elsewhere
func (v Vault) Validate() error {
	if v.PositionRef == "" {
		return errors.Wrap(ErrVaultMismatch, "vault has no position ref")
	}
	if !v.Address.Equals(VaultAddress(v.PositionRef)) {
		return errors.Wrapf(ErrVaultMismatch, "stored address %s does not derive from %s", v.Address, v.PositionRef)
	}
	if err := sdk.ValidateDenom(v.DenomX); err != nil {
		return errors.Wrapf(ErrInvalidPool, "denom_x: %s", err)
	}
	if err := sdk.ValidateDenom(v.DenomY); err != nil {
		return errors.Wrapf(ErrInvalidPool, "denom_y: %s", err)
	}
	return nil
}
