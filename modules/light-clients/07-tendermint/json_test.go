package tendermint_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commitmenttypes "github.com/ComposableFi/ibc-go/v10/modules/core/23-commitment/types"
	ibctm "github.com/ComposableFi/ibc-go/v10/modules/light-clients/07-tendermint"
)

func (s *TendermintTestSuite) TestConsensusStateJSON() {
	timestamp := time.Date(2023, 1, 1, 0, 0, 0, 500_000_000, time.UTC)
	consensusState, err := ibctm.NewConsensusState(timestamp, commitmenttypes.NewMerkleRoot(bytesOf(0x01, 32)), bytesOf(0xAA, 32))
	s.Require().NoError(err)

	bz, err := consensusState.MarshalJSON()
	s.Require().NoError(err)

	var fields map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(bz, &fields))
	s.Require().Len(fields, 3)
	s.Require().JSONEq(`"2023-01-01T00:00:00.5Z"`, string(fields["timestamp"]))
	s.Require().JSONEq(`{"hash":"AQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQE="}`, string(fields["root"]))
	s.Require().JSONEq(fmt.Sprintf("%q", strings.Repeat("AA", 32)), string(fields["next_validators_hash"]))

	decoded, err := ibctm.ConsensusStateFromJSON(bz)
	s.Require().NoError(err)
	s.Require().True(consensusState.Equal(decoded))
}

func (s *TendermintTestSuite) TestConsensusStateFromJSON() {
	validHash := strings.Repeat("AA", 32)

	testCases := []struct {
		name   string
		json   string
		expErr error
	}{
		{
			"success",
			fmt.Sprintf(`{"timestamp":"2020-01-02T00:00:00Z","root":{"hash":"AQID"},"next_validators_hash":"%s"}`, validHash),
			nil,
		},
		{
			"success: empty root",
			fmt.Sprintf(`{"timestamp":"2020-01-02T00:00:00Z","root":{},"next_validators_hash":"%s"}`, validHash),
			nil,
		},
		{
			"success: unknown fields are ignored",
			fmt.Sprintf(`{"timestamp":"2020-01-02T00:00:00Z","root":{"hash":"AQID"},"next_validators_hash":"%s","extra":1}`, validHash),
			nil,
		},
		{
			"timestamp is missing",
			fmt.Sprintf(`{"root":{"hash":"AQID"},"next_validators_hash":"%s"}`, validHash),
			ibctm.ErrMissingField,
		},
		{
			"root is missing",
			fmt.Sprintf(`{"timestamp":"2020-01-02T00:00:00Z","next_validators_hash":"%s"}`, validHash),
			ibctm.ErrMissingField,
		},
		{
			"next validators hash is missing",
			`{"timestamp":"2020-01-02T00:00:00Z","root":{"hash":"AQID"}}`,
			ibctm.ErrInvalidHash,
		},
		{
			"next validators hash is too short",
			`{"timestamp":"2020-01-02T00:00:00Z","root":{"hash":"AQID"},"next_validators_hash":"AAAA"}`,
			ibctm.ErrInvalidHash,
		},
		{
			"next validators hash is not hex",
			`{"timestamp":"2020-01-02T00:00:00Z","root":{"hash":"AQID"},"next_validators_hash":"zz"}`,
			ibctm.ErrInvalidRawConsensusState,
		},
		{
			"timestamp is malformed",
			fmt.Sprintf(`{"timestamp":"yesterday","root":{"hash":"AQID"},"next_validators_hash":"%s"}`, validHash),
			ibctm.ErrInvalidRawConsensusState,
		},
		{
			"not json",
			`consensus state`,
			ibctm.ErrInvalidRawConsensusState,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			consensusState, err := ibctm.ConsensusStateFromJSON([]byte(tc.json))

			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().True(s.now.Equal(consensusState.Timestamp()))
				s.Require().Equal(bytesOf(0xAA, 32), []byte(consensusState.NextValidatorsHash()))
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
