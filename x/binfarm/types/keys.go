package types

import (
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "binfarm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	ConfigKey         = []byte{0x01} // protocol config singleton
	ParamsKey         = []byte{0x02} // module params
	PositionKeyPrefix = []byte{0x03} // position records by external ref
	VaultKeyPrefix    = []byte{0x04} // vault records by external ref
	RoverKey          = []byte{0x05} // rover authority singleton
	OwnerIndexPrefix  = []byte{0x06} // owner -> position ref index (queries only)
	PositionSeqKey    = []byte{0x07} // next position sequence
)

// Derivation seeds for module-controlled accounts.
var (
	vaultSeed = []byte("vault")
	roverSeed = []byte("rover_authority")
)

// PositionRefFor formats the external reference for the seq-th position.
func PositionRefFor(seq uint64) string {
	return fmt.Sprintf("%s-%d", ModuleName, seq)
}

// ParsePositionRef returns the sequence a reference was allocated from. Only
// the canonical form produced by PositionRefFor is accepted.
func ParsePositionRef(ref string) (uint64, error) {
	digits, ok := strings.CutPrefix(ref, ModuleName+"-")
	if !ok {
		return 0, fmt.Errorf("position ref %q lacks the %s- prefix", ref, ModuleName)
	}
	seq, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || seq == 0 || PositionRefFor(seq) != ref {
		return 0, fmt.Errorf("position ref %q is not %s-<seq>", ref, ModuleName)
	}
	return seq, nil
}

// PositionKey returns the store key for a position by its external reference.
func PositionKey(ref string) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), []byte(ref)...)
}

// VaultKey returns the store key for the vault bound to a position.
func VaultKey(ref string) []byte {
	return append(append([]byte{}, VaultKeyPrefix...), []byte(ref)...)
}

// OwnerIndexPrefixFor returns the index prefix for every position of an owner.
func OwnerIndexPrefixFor(owner sdk.AccAddress) []byte {
	key := append([]byte{}, OwnerIndexPrefix...)
	return append(key, address.MustLengthPrefix(owner)...)
}

// OwnerIndexKey returns the owner index key for a single position.
func OwnerIndexKey(owner sdk.AccAddress, ref string) []byte {
	return append(OwnerIndexPrefixFor(owner), []byte(ref)...)
}

// VaultAddress derives the custody account for a position. The address is a
// pure function of the external position reference; it is the only way a
// vault is ever resolved.
func VaultAddress(ref string) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, vaultSeed, []byte(ref)))
}

// RoverAuthorityAddress returns the shared custody account that owns rover
// positions and collects protocol fees.
func RoverAuthorityAddress() sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, roverSeed))
}
