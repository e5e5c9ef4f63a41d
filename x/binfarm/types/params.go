package types

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// MaxPositionWidth is the widest range a pool position can hold
	MaxPositionWidth uint32 = 70
	// MaxActiveBinSlippage bounds the caller-supplied active bin tolerance
	MaxActiveBinSlippage uint32 = 20
	// MaxBinID is the largest absolute bin id the pool can report
	MaxBinID int32 = 443_636
)

// Params defines the governance-controlled parameters of the binfarm module.
type Params struct {
	// PoolProgram is the expected program identity of the pool service
	PoolProgram string `json:"pool_program"`

	MinPositionAmount math.Int `json:"min_position_amount"`
	MinRoverDeposit   math.Int `json:"min_rover_deposit"`
	MinRoverBinStep   uint32   `json:"min_rover_bin_step"`
	RoverSlippage     uint32   `json:"rover_slippage"`
	MaxPositionWidth  uint32   `json:"max_position_width"`
	MaxBinsPerHarvest uint32   `json:"max_bins_per_harvest"`

	// TimelockSeconds delays fee, revenue destination and emergency changes
	TimelockSeconds int64 `json:"timelock_seconds"`

	RevenueDenom      string   `json:"revenue_denom"`
	RoverReserveFloor math.Int `json:"rover_reserve_floor"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		PoolProgram:       "dlmm",
		MinPositionAmount: math.NewInt(10_000),
		MinRoverDeposit:   math.NewInt(10_000),
		MinRoverBinStep:   20,
		RoverSlippage:     10,
		MaxPositionWidth:  MaxPositionWidth,
		MaxBinsPerHarvest: MaxPositionWidth,
		TimelockSeconds:   86_400, // 24h
		RevenueDenom:      sdk.DefaultBondDenom,
		RoverReserveFloor: math.ZeroInt(),
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.PoolProgram == "" {
		return errors.Wrap(ErrInvalidParams, "pool program cannot be empty")
	}
	if err := validatePositiveInt("min_position_amount", p.MinPositionAmount); err != nil {
		return err
	}
	if err := validatePositiveInt("min_rover_deposit", p.MinRoverDeposit); err != nil {
		return err
	}
	if p.MinRoverBinStep == 0 {
		return errors.Wrap(ErrInvalidParams, "min_rover_bin_step must be positive")
	}
	if p.RoverSlippage > MaxActiveBinSlippage {
		return errors.Wrapf(ErrInvalidParams, "rover_slippage %d exceeds %d", p.RoverSlippage, MaxActiveBinSlippage)
	}
	if p.MaxPositionWidth == 0 || p.MaxPositionWidth > MaxPositionWidth {
		return errors.Wrapf(ErrInvalidParams, "max_position_width must be in [1,%d]", MaxPositionWidth)
	}
	if p.MaxBinsPerHarvest == 0 || p.MaxBinsPerHarvest > MaxPositionWidth {
		return errors.Wrapf(ErrInvalidParams, "max_bins_per_harvest must be in [1,%d]", MaxPositionWidth)
	}
	if p.TimelockSeconds <= 0 {
		return errors.Wrap(ErrInvalidParams, "timelock_seconds must be positive")
	}
	if err := sdk.ValidateDenom(p.RevenueDenom); err != nil {
		return errors.Wrapf(ErrInvalidParams, "revenue_denom: %s", err)
	}
	if p.RoverReserveFloor.IsNil() || p.RoverReserveFloor.IsNegative() {
		return errors.Wrap(ErrInvalidParams, "rover_reserve_floor must be non-negative")
	}
	return nil
}

func validatePositiveInt(name string, v math.Int) error {
	if v.IsNil() || !v.IsPositive() {
		return errors.Wrap(ErrInvalidParams, fmt.Sprintf("%s must be positive", name))
	}
	return nil
}
