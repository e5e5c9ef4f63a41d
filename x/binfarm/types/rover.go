package types

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// roverRangeBps is ~ln(2)*10000: the number of bins a rover spans is
// roverRangeBps / bin_step, so every rover covers roughly a 2x price range.
const roverRangeBps uint32 = 6_931

// RoverAuthority is the shared custody singleton that owns rover positions
// and collects every protocol fee.
type RoverAuthority struct {
	Version             uint32         `json:"version"`
	Address             sdk.AccAddress `json:"address"`
	RevenueDest         sdk.AccAddress `json:"revenue_dest"`
	PendingRevenueDest  sdk.AccAddress `json:"pending_revenue_dest,omitempty"`
	RevenueDestChangeAt int64          `json:"revenue_dest_change_at"`
	TotalRoverPositions uint64         `json:"total_rover_positions"`
}

// DefaultRoverAuthority returns a rover authority sweeping to revenueDest
func DefaultRoverAuthority(revenueDest sdk.AccAddress) RoverAuthority {
	return RoverAuthority{
		Version:     1,
		Address:     RoverAuthorityAddress(),
		RevenueDest: revenueDest,
	}
}

// HasPendingRevenueDest reports whether a revenue destination change is queued
func (r RoverAuthority) HasPendingRevenueDest() bool {
	return r.RevenueDestChangeAt != 0
}

// Validate checks the rover authority record
func (r RoverAuthority) Validate() error {
	if !r.Address.Equals(RoverAuthorityAddress()) {
		return errors.Wrapf(ErrVaultMismatch, "rover authority address %s is not derived", r.Address)
	}
	if r.RevenueDest.Empty() {
		return ErrInvalidRevenueDest
	}
	return nil
}

// RoverRange computes the Sell range a rover opens for a pool: it starts one
// bin above the active bin and spans roverRangeBps/binStep bins, clamped to
// [1, maxWidth].
func RoverRange(activeBin int32, binStep uint32, maxWidth uint32) (minBin, maxBin int32, err error) {
	if binStep == 0 {
		return 0, 0, errors.Wrap(ErrRoverBinStepTooSmall, "bin step is zero")
	}
	width := roverRangeBps / binStep
	if width < 1 {
		width = 1
	}
	if width > maxWidth {
		width = maxWidth
	}
	lower := int64(activeBin) + 1
	upper := lower + int64(width) - 1
	if upper > int64(MaxBinID) {
		return 0, 0, errors.Wrapf(ErrInvalidBinRange, "rover range exceeds max bin id: %d", upper)
	}
	return int32(lower), int32(upper), nil
}
