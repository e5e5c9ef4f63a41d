package types

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ConfigVersion is the current ProtocolConfig schema version
	ConfigVersion uint32 = 1

	// BpsDenominator is the basis-point scale (100%)
	BpsDenominator uint32 = 10_000

	// MaxFeeBps caps the protocol fee at 10%
	MaxFeeBps uint32 = 1_000
	// MaxKeeperTipBps caps the keeper tip at 50% of the fee
	MaxKeeperTipBps uint32 = 5_000
	// MaxStalenessThreshold caps the heartbeat window, in blocks
	MaxStalenessThreshold uint64 = 9_000

	DefaultFeeBps             uint32 = 30
	DefaultKeeperTipBps       uint32 = 1_000
	DefaultStalenessThreshold uint64 = 100
)

// ProtocolConfig is the singleton protocol configuration. Heartbeats are
// block heights; fee_effective_at is block time in unix seconds.
type ProtocolConfig struct {
	Version uint32 `json:"version"`

	Authority        sdk.AccAddress `json:"authority"`
	PendingAuthority sdk.AccAddress `json:"pending_authority,omitempty"`
	Agent            sdk.AccAddress `json:"agent"`

	FeeBps         uint32 `json:"fee_bps"`
	PendingFeeBps  uint32 `json:"pending_fee_bps"`
	FeeEffectiveAt int64  `json:"fee_effective_at"`

	Paused      bool `json:"paused"`
	AgentPaused bool `json:"agent_paused"`

	KeeperTipBps       uint32 `json:"keeper_tip_bps"`
	StalenessThreshold uint64 `json:"staleness_threshold"`

	LastAgentHarvestAt uint64 `json:"last_agent_harvest_at"`
	LastAgentCloseAt   uint64 `json:"last_agent_close_at"`
	LastAgentSweepAt   uint64 `json:"last_agent_sweep_at"`

	TotalPositions uint64   `json:"total_positions"`
	TotalVolume    math.Int `json:"total_volume"`
	TotalHarvested math.Int `json:"total_harvested"`

	PendingEmergencyCloseTarget string `json:"pending_emergency_close_target,omitempty"`
	EmergencyCloseEffectiveAt   int64  `json:"emergency_close_effective_at"`
}

// DefaultProtocolConfig returns a config owned by authority with agent as the
// designated automation key.
func DefaultProtocolConfig(authority, agent sdk.AccAddress) ProtocolConfig {
	return ProtocolConfig{
		Version:            ConfigVersion,
		Authority:          authority,
		Agent:              agent,
		FeeBps:             DefaultFeeBps,
		KeeperTipBps:       DefaultKeeperTipBps,
		StalenessThreshold: DefaultStalenessThreshold,
		TotalVolume:        math.ZeroInt(),
		TotalHarvested:     math.ZeroInt(),
	}
}

// HasPendingFeeChange reports whether a fee change is queued
func (c ProtocolConfig) HasPendingFeeChange() bool {
	return c.FeeEffectiveAt != 0
}

// HasPendingEmergencyClose reports whether an emergency close is queued
func (c ProtocolConfig) HasPendingEmergencyClose() bool {
	return c.PendingEmergencyCloseTarget != ""
}

// Validate checks the configuration bounds
func (c ProtocolConfig) Validate() error {
	if c.Version == 0 || c.Version > ConfigVersion {
		return errors.Wrapf(ErrInvalidConfig, "unsupported config version %d", c.Version)
	}
	if c.Authority.Empty() {
		return errors.Wrap(ErrInvalidConfig, "authority cannot be empty")
	}
	if c.Agent.Empty() {
		return errors.Wrap(ErrInvalidConfig, "agent cannot be empty")
	}
	if c.FeeBps > MaxFeeBps {
		return errors.Wrapf(ErrFeeTooHigh, "fee_bps %d exceeds %d", c.FeeBps, MaxFeeBps)
	}
	if c.PendingFeeBps > MaxFeeBps {
		return errors.Wrapf(ErrFeeTooHigh, "pending_fee_bps %d exceeds %d", c.PendingFeeBps, MaxFeeBps)
	}
	if c.KeeperTipBps > MaxKeeperTipBps {
		return errors.Wrapf(ErrFeeTooHigh, "keeper_tip_bps %d exceeds %d", c.KeeperTipBps, MaxKeeperTipBps)
	}
	if c.StalenessThreshold > MaxStalenessThreshold {
		return errors.Wrapf(ErrStalenessExceedsMax, "%d exceeds %d", c.StalenessThreshold, MaxStalenessThreshold)
	}
	if c.TotalVolume.IsNil() || c.TotalVolume.IsNegative() {
		return errors.Wrap(ErrInvalidConfig, "total_volume must be non-negative")
	}
	if c.TotalHarvested.IsNil() || c.TotalHarvested.IsNegative() {
		return errors.Wrap(ErrInvalidConfig, "total_harvested must be non-negative")
	}
	return nil
}
