package types

import (
	"cosmossdk.io/errors"
)

// Precondition violations
var (
	ErrUnauthorized          = errors.Register(ModuleName, 2, "not authorized")
	ErrPaused                = errors.Register(ModuleName, 3, "protocol is paused")
	ErrZeroAmount            = errors.Register(ModuleName, 4, "amount must be greater than zero")
	ErrPositionTooSmall      = errors.Register(ModuleName, 5, "position amount below minimum")
	ErrInvalidBinRange       = errors.Register(ModuleName, 6, "invalid bin range (min must be <= max)")
	ErrPositionTooWide       = errors.Register(ModuleName, 7, "position width exceeds maximum")
	ErrInvalidSlippage       = errors.Register(ModuleName, 8, "invalid slippage (must be 0-20)")
	ErrFeeTooHigh            = errors.Register(ModuleName, 9, "fee too high")
	ErrAgentNotStale         = errors.Register(ModuleName, 10, "agent is still active; permissionless path not yet available")
	ErrAgentPaused           = errors.Register(ModuleName, 11, "agent close operations are paused")
	ErrInvalidProgram        = errors.Register(ModuleName, 12, "pool service program identity mismatch")
	ErrInvalidOwner          = errors.Register(ModuleName, 13, "account owner mismatch")
	ErrInvalidAddress        = errors.Register(ModuleName, 14, "invalid address")
	ErrInvalidTipRecipient   = errors.Register(ModuleName, 15, "permissionless caller must provide a valid tip recipient")
	ErrStalenessExceedsMax   = errors.Register(ModuleName, 16, "staleness threshold exceeds maximum")
	ErrRoverDepositTooSmall  = errors.Register(ModuleName, 17, "rover deposit below minimum")
	ErrRoverBinStepTooSmall  = errors.Register(ModuleName, 18, "rover bin step too small")
	ErrInvalidRevenueDest    = errors.Register(ModuleName, 19, "revenue destination cannot be empty")
	ErrNothingToSweep        = errors.Register(ModuleName, 20, "nothing to sweep")
	ErrInvalidParams         = errors.Register(ModuleName, 21, "invalid params")
	ErrInvalidConfig         = errors.Register(ModuleName, 22, "invalid protocol config")
	ErrInvalidPool           = errors.Register(ModuleName, 23, "invalid pool state")
	ErrPositionNotFound      = errors.Register(ModuleName, 24, "position not found")
	ErrPositionExists        = errors.Register(ModuleName, 25, "position already exists")
	ErrNoPendingAuthority    = errors.Register(ModuleName, 26, "no pending authority")
	ErrNoPendingFeeChange    = errors.Register(ModuleName, 27, "no pending fee change")
	ErrTimelockNotExpired    = errors.Register(ModuleName, 28, "timelock not expired")
	ErrNoPendingEmergency    = errors.Register(ModuleName, 29, "no pending emergency close")
	ErrNoPendingRevenueDest  = errors.Register(ModuleName, 30, "no pending revenue destination change")
	ErrNoBinsProvided        = errors.Register(ModuleName, 31, "no bin ids provided")
	ErrTooManyBins           = errors.Register(ModuleName, 32, "too many bins per call")
	ErrBinOutOfPositionRange = errors.Register(ModuleName, 33, "bin id outside position range")
)

// Arithmetic faults
var (
	ErrOverflow = errors.Register(ModuleName, 34, "arithmetic overflow")
)

// External-call failures
var (
	ErrPoolService = errors.Register(ModuleName, 35, "pool service call failed")
	ErrTransfer    = errors.Register(ModuleName, 36, "token transfer failed")
)

// Consistency faults
var (
	ErrNonContiguousBins = errors.Register(ModuleName, 37, "bin ids must be contiguous (no gaps)")
	ErrVaultMismatch     = errors.Register(ModuleName, 38, "vault is not bound to this position")
	ErrDuplicateBin      = errors.Register(ModuleName, 39, "duplicate bin id")
	ErrInvalidSide       = errors.Register(ModuleName, 40, "invalid position side")
)
