package types

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PositionVersion is the current Position schema version
const PositionVersion uint32 = 1

// Side is the token a position was funded with. A Sell position deposits X
// above the active bin and converts into Y; a Buy position deposits Y at or
// below it and converts into X.
type Side uint8

const (
	SideBuy Side = iota + 1
	SideSell
)

// SideForRange derives the position side from its range and the pool's
// active bin.
func SideForRange(minBin, activeBin int32) Side {
	if minBin > activeBin {
		return SideSell
	}
	return SideBuy
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the two defined sides
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

func (s Side) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Wrapf(ErrInvalidSide, "%d", uint8(s))
	}
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(bz []byte) error {
	var str string
	if err := json.Unmarshal(bz, &str); err != nil {
		return err
	}
	switch str {
	case "buy":
		*s = SideBuy
	case "sell":
		*s = SideSell
	default:
		return errors.Wrapf(ErrInvalidSide, "%q", str)
	}
	return nil
}

// DepositDenom returns the denom funded into the vault on open
func (s Side) DepositDenom(denomX, denomY string) string {
	if s == SideSell {
		return denomX
	}
	return denomY
}

// ConvertedDenom returns the denom the position converts into; fees are
// only ever charged on this side.
func (s Side) ConvertedDenom(denomX, denomY string) string {
	if s == SideSell {
		return denomY
	}
	return denomX
}

// Position is a custodial range position in the external pool.
type Position struct {
	Version         uint32         `json:"version"`
	Owner           sdk.AccAddress `json:"owner"`
	PoolRef         string         `json:"pool_ref"`
	PositionRef     string         `json:"position_ref"`
	Side            Side           `json:"side"`
	MinBin          int32          `json:"min_bin"`
	MaxBin          int32          `json:"max_bin"`
	InitialAmount   math.Int       `json:"initial_amount"`
	HarvestedAmount math.Int       `json:"harvested_amount"`
	CreatedAt       int64          `json:"created_at"`
	Rover           bool           `json:"rover"`
}

// Width returns the number of bins in the position range
func (p Position) Width() uint32 {
	return uint32(int64(p.MaxBin) - int64(p.MinBin) + 1)
}

// ContainsBin reports whether bin lies inside the position range
func (p Position) ContainsBin(bin int32) bool {
	return bin >= p.MinBin && bin <= p.MaxBin
}

// Validate checks the position record for internal consistency
func (p Position) Validate() error {
	if p.Owner.Empty() {
		return errors.Wrap(ErrInvalidAddress, "position owner cannot be empty")
	}
	if p.PositionRef == "" {
		return errors.Wrap(ErrPositionNotFound, "position ref cannot be empty")
	}
	if p.PoolRef == "" {
		return errors.Wrap(ErrInvalidPool, "pool ref cannot be empty")
	}
	if !p.Side.Valid() {
		return errors.Wrapf(ErrInvalidSide, "%d", uint8(p.Side))
	}
	if p.MinBin > p.MaxBin {
		return errors.Wrapf(ErrInvalidBinRange, "min %d > max %d", p.MinBin, p.MaxBin)
	}
	if p.Width() > MaxPositionWidth {
		return errors.Wrapf(ErrPositionTooWide, "width %d", p.Width())
	}
	if p.InitialAmount.IsNil() || !p.InitialAmount.IsPositive() {
		return errors.Wrap(ErrZeroAmount, "initial amount")
	}
	if p.HarvestedAmount.IsNil() || p.HarvestedAmount.IsNegative() {
		return errors.Wrap(ErrOverflow, "harvested amount must be non-negative")
	}
	return nil
}
