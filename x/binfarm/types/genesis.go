package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState defines the binfarm module's genesis state.
type GenesisState struct {
	Params         Params         `json:"params"`
	Config         ProtocolConfig `json:"config"`
	RoverAuthority RoverAuthority `json:"rover_authority"`
	Positions      []Position     `json:"positions"`
	Vaults         []Vault        `json:"vaults"`
	NextPositionID uint64         `json:"next_position_id"`
}

// DefaultGenesis returns the default genesis state for the binfarm module.
// The authority, agent and revenue destination all start as the governance
// module account and are expected to be rotated after launch.
func DefaultGenesis() *GenesisState {
	gov := sdk.AccAddress(DefaultGovAuthority())
	return &GenesisState{
		Params:         DefaultParams(),
		Config:         DefaultProtocolConfig(gov, gov),
		RoverAuthority: DefaultRoverAuthority(gov),
		Positions:      []Position{},
		Vaults:         []Vault{},
		NextPositionID: 1,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("params: %w", err)
	}
	if err := gs.Config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := gs.RoverAuthority.Validate(); err != nil {
		return fmt.Errorf("rover authority: %w", err)
	}
	if gs.NextPositionID == 0 {
		return fmt.Errorf("next position id must be positive")
	}

	vaults := make(map[string]Vault, len(gs.Vaults))
	for _, v := range gs.Vaults {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("vault %s: %w", v.PositionRef, err)
		}
		if _, dup := vaults[v.PositionRef]; dup {
			return fmt.Errorf("duplicate vault for %s", v.PositionRef)
		}
		vaults[v.PositionRef] = v
	}

	seen := make(map[string]struct{}, len(gs.Positions))
	for _, p := range gs.Positions {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("position %s: %w", p.PositionRef, err)
		}
		if _, dup := seen[p.PositionRef]; dup {
			return fmt.Errorf("duplicate position %s", p.PositionRef)
		}
		seen[p.PositionRef] = struct{}{}
		seq, err := ParsePositionRef(p.PositionRef)
		if err != nil {
			return err
		}
		if seq >= gs.NextPositionID {
			return fmt.Errorf("next position id %d does not exceed %s", gs.NextPositionID, p.PositionRef)
		}
		if _, ok := vaults[p.PositionRef]; !ok {
			return fmt.Errorf("position %s has no vault", p.PositionRef)
		}
	}
	if len(vaults) != len(seen) {
		return fmt.Errorf("%d vaults for %d positions", len(vaults), len(seen))
	}
	if target := gs.Config.PendingEmergencyCloseTarget; target != "" {
		if _, ok := seen[target]; !ok {
			return fmt.Errorf("emergency close target %s does not exist", target)
		}
	}
	return nil
}
