package cmd

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/monkearmy/binfarm/x/binfarm/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

const (
	flagTipBps   = "tip-bps"
	flagFallback = "fallback"
	flagMaxWidth = "max-width"
)

// FeeSplitCmd previews the fee, keeper tip and protocol share charged on a
// converted-side amount.
func FeeSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee-split [amount]",
		Short: "Preview the fee split on a converted amount",
		Example: `  binfarmd fee-split 10000 --fee-bps 30
  binfarmd fee-split 10000 --fee-bps 30 --tip-bps 1000 --fallback`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, ok := math.NewIntFromString(args[0])
			if !ok || base.IsNegative() {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			feeBps, _ := cmd.Flags().GetUint32(flagFeeBps)
			tipBps, _ := cmd.Flags().GetUint32(flagTipBps)
			fallback, _ := cmd.Flags().GetBool(flagFallback)
			if feeBps > types.MaxFeeBps {
				return fmt.Errorf("fee %d bps exceeds %d: %w", feeBps, types.MaxFeeBps, types.ErrFeeTooHigh)
			}
			if tipBps > types.MaxKeeperTipBps {
				return fmt.Errorf("tip %d bps exceeds %d: %w", tipBps, types.MaxKeeperTipBps, types.ErrFeeTooHigh)
			}

			fee, tip, protocol, err := keeper.ComputeFeeSplit(base, feeBps, tipBps, fallback)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "converted: %s\n", base)
			fmt.Fprintf(out, "fee:       %s\n", fee)
			fmt.Fprintf(out, "tip:       %s\n", tip)
			fmt.Fprintf(out, "protocol:  %s\n", protocol)
			fmt.Fprintf(out, "owner:     %s\n", base.Sub(fee))
			return nil
		},
	}

	cmd.Flags().Uint32(flagFeeBps, types.DefaultFeeBps, "protocol fee in basis points")
	cmd.Flags().Uint32(flagTipBps, types.DefaultKeeperTipBps, "keeper tip in basis points of the fee")
	cmd.Flags().Bool(flagFallback, false, "settle as a stale-agent fallback call (pays the tip)")
	return cmd
}

// RoverRangeCmd prints the bin range a rover would open for a pool
func RoverRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rover-range [active-bin] [bin-step]",
		Short: "Preview the Sell range a rover opens for a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				active  int32
				binStep uint32
			)
			if _, err := fmt.Sscan(args[0], &active); err != nil {
				return fmt.Errorf("invalid active bin %q: %w", args[0], err)
			}
			if _, err := fmt.Sscan(args[1], &binStep); err != nil {
				return fmt.Errorf("invalid bin step %q: %w", args[1], err)
			}
			maxWidth, _ := cmd.Flags().GetUint32(flagMaxWidth)

			minBin, maxBin, err := types.RoverRange(active, binStep, maxWidth)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "[%d, %d] width %d\n", minBin, maxBin, maxBin-minBin+1)
			return err
		},
	}

	cmd.Flags().Uint32(flagMaxWidth, types.MaxPositionWidth, "maximum position width in bins")
	return cmd
}
