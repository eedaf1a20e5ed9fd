package cli

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	errorsmod "cosmossdk.io/errors"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/spf13/cobra"

	ibcerrors "github.com/ComposableFi/ibc-go/v10/internal/errors"
	commitmenttypes "github.com/ComposableFi/ibc-go/v10/modules/core/23-commitment/types"
	ibctm "github.com/ComposableFi/ibc-go/v10/modules/light-clients/07-tendermint"
)

// newDecodeCmd defines the command to decode a protobuf encoded consensus state
func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decode [hex-bytes]",
		Short:   "Decode a protobuf encoded consensus state",
		Long:    "Decode a hex encoded ibc.lightclients.tendermint.v1.ConsensusState and print it.",
		Example: "tmconsensus decode 0A0C08...",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := getLogger(cmd)
			if err != nil {
				return err
			}

			bz, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "invalid hex bytes: %s", err)
			}

			consensusState, err := ibctm.UnmarshalConsensusState(bz)
			if err != nil {
				return err
			}

			logger.Debug("decoded consensus state", "bytes", len(bz), "timestamp", consensusState.GetTimestamp())

			return printConsensusState(cmd, consensusState)
		},
	}

	return cmd
}

// newEncodeCmd defines the command to encode a JSON consensus state
func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encode [path/to/consensus_state.json]",
		Short:   "Encode a JSON consensus state into protobuf bytes",
		Long:    "Read a consensus state in the JSON layout printed by decode and print its hex encoded protobuf bytes.",
		Example: "tmconsensus encode consensus_state.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			consensusState, err := ibctm.ConsensusStateFromJSON(bz)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%X\n", ibctm.MarshalConsensusState(consensusState))
			return err
		},
	}

	return cmd
}

// newProjectCmd defines the command to derive a consensus state from a block header
func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [path/to/header.json]",
		Short: "Derive the consensus state committed to by a block header",
		Long: `Read a tendermint block header in JSON and print the consensus state it commits to.
The header must pass basic validation and carry a 32 byte next validators hash; neither its hash
nor any signature is checked.`,
		Example: "tmconsensus project header.json --output hex",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := getLogger(cmd)
			if err != nil {
				return err
			}

			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var header cmttypes.Header
			if err := cmtjson.Unmarshal(bz, &header); err != nil {
				return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "invalid block header: %s", err)
			}

			logger.Debug("projecting block header", "chain_id", header.ChainID, "height", header.Height)

			consensusState, err := ibctm.NewConsensusState(header.Time, commitmenttypes.NewMerkleRoot(header.AppHash), header.NextValidatorsHash)
			if err != nil {
				return err
			}

			if err := header.ValidateBasic(); err != nil {
				return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "invalid block header: %s", err)
			}

			return printConsensusState(cmd, consensusState)
		},
	}

	return cmd
}
