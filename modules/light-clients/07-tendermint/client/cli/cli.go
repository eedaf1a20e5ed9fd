package cli

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	ibcerrors "github.com/ComposableFi/ibc-go/v10/internal/errors"
	ibctm "github.com/ComposableFi/ibc-go/v10/modules/light-clients/07-tendermint"
)

const (
	// FlagOutput selects how consensus states are printed.
	FlagOutput = "output"
	// FlagLogLevel sets the level of the stderr logger.
	FlagLogLevel = "log_level"

	OutputJSON = "json"
	OutputText = "text"
	OutputHex  = "hex"
)

// NewRootCmd returns the root command for inspecting 07-tendermint consensus states.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                        "tmconsensus",
		Short:                      "IBC 07-tendermint consensus state subcommands",
		SuggestionsMinimumDistance: 2,
		SilenceUsage:               true,
	}

	rootCmd.PersistentFlags().String(FlagOutput, OutputJSON, "Output format (json|text|hex)")
	rootCmd.PersistentFlags().String(FlagLogLevel, zerolog.InfoLevel.String(), "The logging level (trace|debug|info|warn|error|fatal|panic)")

	rootCmd.AddCommand(
		newDecodeCmd(),
		newEncodeCmd(),
		newProjectCmd(),
	)

	return rootCmd
}

func getLogger(cmd *cobra.Command) (log.Logger, error) {
	level, err := cmd.Flags().GetString(FlagLogLevel)
	if err != nil {
		return nil, err
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "invalid %s %q: %s", FlagLogLevel, level, err)
	}

	return log.NewLogger(cmd.ErrOrStderr(), log.LevelOption(lvl), log.ColorOption(false)), nil
}

func printConsensusState(cmd *cobra.Command, consensusState ibctm.ConsensusState) error {
	output, err := cmd.Flags().GetString(FlagOutput)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch output {
	case OutputJSON:
		bz, err := consensusState.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(bz))
		return err
	case OutputText:
		_, err = fmt.Fprintln(out, consensusState.String())
		return err
	case OutputHex:
		_, err = fmt.Fprintf(out, "%X\n", ibctm.MarshalConsensusState(consensusState))
		return err
	default:
		return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "unknown %s %q, expected one of %s, %s, %s", FlagOutput, output, OutputJSON, OutputText, OutputHex)
	}
}
