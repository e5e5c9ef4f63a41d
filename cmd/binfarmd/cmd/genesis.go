package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/monkearmy/binfarm/x/binfarm"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

const (
	flagAuthority          = "authority"
	flagAgent              = "agent"
	flagRevenueDest        = "revenue-dest"
	flagFeeBps             = "fee-bps"
	flagKeeperTipBps       = "keeper-tip-bps"
	flagStalenessThreshold = "staleness-threshold"
	flagTimelockSeconds    = "timelock-seconds"
	flagPoolProgram        = "pool-program"
	flagRevenueDenom       = "revenue-denom"
	flagOutput             = "output"
)

// GenesisConfig holds the operator-chosen values for a fresh binfarm genesis.
// Empty addresses and a zero timelock fall back to the module defaults; a
// zero fee, tip or staleness threshold is kept as given.
type GenesisConfig struct {
	Authority          string
	Agent              string
	RevenueDest        string
	FeeBps             uint32
	KeeperTipBps       uint32
	StalenessThreshold uint64
	TimelockSeconds    int64
	PoolProgram        string
	RevenueDenom       string
}

// LoadGenesisConfig reads the genesis section of the resolved configuration
func LoadGenesisConfig(v *viper.Viper) GenesisConfig {
	return GenesisConfig{
		Authority:          v.GetString(flagAuthority),
		Agent:              v.GetString(flagAgent),
		RevenueDest:        v.GetString(flagRevenueDest),
		FeeBps:             uint32Or(v, flagFeeBps, types.DefaultFeeBps),
		KeeperTipBps:       uint32Or(v, flagKeeperTipBps, types.DefaultKeeperTipBps),
		StalenessThreshold: uint64Or(v, flagStalenessThreshold, types.DefaultStalenessThreshold),
		TimelockSeconds:    v.GetInt64(flagTimelockSeconds),
		PoolProgram:        v.GetString(flagPoolProgram),
		RevenueDenom:       v.GetString(flagRevenueDenom),
	}
}

func uint32Or(v *viper.Viper, key string, def uint32) uint32 {
	if v.IsSet(key) {
		return v.GetUint32(key)
	}
	return def
}

func uint64Or(v *viper.Viper, key string, def uint64) uint64 {
	if v.IsSet(key) {
		return v.GetUint64(key)
	}
	return def
}

// Build returns a validated genesis state for the config
func (c GenesisConfig) Build() (*types.GenesisState, error) {
	gs := types.DefaultGenesis()

	authority, err := addressOr(c.Authority, gs.Config.Authority)
	if err != nil {
		return nil, fmt.Errorf("authority: %w", err)
	}
	agent, err := addressOr(c.Agent, gs.Config.Agent)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	revenueDest, err := addressOr(c.RevenueDest, gs.RoverAuthority.RevenueDest)
	if err != nil {
		return nil, fmt.Errorf("revenue destination: %w", err)
	}

	gs.Config = types.DefaultProtocolConfig(authority, agent)
	gs.RoverAuthority = types.DefaultRoverAuthority(revenueDest)

	gs.Config.FeeBps = c.FeeBps
	gs.Config.KeeperTipBps = c.KeeperTipBps
	gs.Config.StalenessThreshold = c.StalenessThreshold
	if c.TimelockSeconds != 0 {
		gs.Params.TimelockSeconds = c.TimelockSeconds
	}
	if c.PoolProgram != "" {
		gs.Params.PoolProgram = c.PoolProgram
	}
	if c.RevenueDenom != "" {
		gs.Params.RevenueDenom = c.RevenueDenom
	}

	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return gs, nil
}

func addressOr(bech32 string, fallback sdk.AccAddress) (sdk.AccAddress, error) {
	if bech32 == "" {
		return fallback, nil
	}
	return sdk.AccAddressFromBech32(bech32)
}

// GenesisCmd groups the genesis helpers
func GenesisCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Generate and validate binfarm genesis state",
	}
	cmd.AddCommand(
		DefaultGenesisCmd(v),
		ValidateGenesisCmd(v),
	)
	return cmd
}

// DefaultGenesisCmd prints a binfarm genesis built from flags, environment
// and binfarm.toml.
func DefaultGenesisCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print a binfarm genesis state",
		Long: `Print a binfarm genesis state as JSON. Authority, agent and revenue
destination default to the governance module account.

Example:
  binfarmd genesis default --authority cosmos1... --agent cosmos1... --fee-bps 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(v)

			gs, err := LoadGenesisConfig(v).Build()
			if err != nil {
				return fmt.Errorf("build genesis: %w", err)
			}
			bz, err := json.MarshalIndent(gs, "", "  ")
			if err != nil {
				return err
			}

			if out := v.GetString(flagOutput); out != "" {
				if err := os.WriteFile(out, bz, 0o644); err != nil {
					return err
				}
				logger.Info("genesis written", "path", out, "fee_bps", gs.Config.FeeBps)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.Flags().String(flagAuthority, "", "protocol authority address")
	cmd.Flags().String(flagAgent, "", "designated agent address")
	cmd.Flags().String(flagRevenueDest, "", "rover revenue destination address")
	cmd.Flags().Uint32(flagFeeBps, types.DefaultFeeBps, "protocol fee in basis points")
	cmd.Flags().Uint32(flagKeeperTipBps, types.DefaultKeeperTipBps, "fallback keeper tip in basis points of the fee")
	cmd.Flags().Uint64(flagStalenessThreshold, types.DefaultStalenessThreshold, "agent staleness threshold in blocks")
	cmd.Flags().Int64(flagTimelockSeconds, 0, "governance timelock in seconds (0 keeps the module default)")
	cmd.Flags().String(flagPoolProgram, "", "expected pool service program id")
	cmd.Flags().String(flagRevenueDenom, "", "denom swept from the rover authority")
	cmd.Flags().StringP(flagOutput, "o", "", "write to file instead of stdout")
	return cmd
}

// ValidateGenesisCmd checks a binfarm genesis file, either the module section
// alone or a full app genesis with an app_state.binfarm entry.
func ValidateGenesisCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a binfarm genesis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var app struct {
				AppState map[string]json.RawMessage `json:"app_state"`
			}
			if err := json.Unmarshal(bz, &app); err == nil {
				if section, ok := app.AppState[types.ModuleName]; ok {
					bz = section
				}
			}

			gs, err := binfarm.ParseGenesis(bz)
			if err != nil {
				return err
			}
			if err := gs.Validate(); err != nil {
				return fmt.Errorf("invalid genesis: %w", err)
			}

			newLogger(v).Debug("genesis validated", "path", args[0])
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "genesis valid: %d positions, next ref %s\n",
				len(gs.Positions), types.PositionRefFor(gs.NextPositionID))
			return err
		},
	}
}
