package tendermint_test

import (
	"math"
	"time"

	"github.com/cometbft/cometbft/crypto/tmhash"

	clienttypes "github.com/ComposableFi/ibc-go/v10/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-go/v10/modules/core/23-commitment/types"
	"github.com/ComposableFi/ibc-go/v10/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-go/v10/modules/light-clients/07-tendermint"
)

func (s *TendermintTestSuite) TestNewConsensusState() {
	testCases := []struct {
		name         string
		timestamp    time.Time
		root         commitmenttypes.MerkleRoot
		nextValsHash []byte
		expErr       error
	}{
		{
			"success",
			s.now,
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			s.valsHash,
			nil,
		},
		{
			"success with empty root",
			s.now,
			commitmenttypes.MerkleRoot{},
			s.valsHash,
			nil,
		},
		{
			"success with time before unix epoch",
			time.Date(1900, 6, 1, 12, 0, 0, 1, time.UTC),
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			s.valsHash,
			nil,
		},
		{
			"next validators hash is too short",
			s.now,
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			[]byte("hi"),
			ibctm.ErrInvalidHash,
		},
		{
			"next validators hash is too long",
			s.now,
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			bytesOf(0xAA, tmhash.Size+1),
			ibctm.ErrInvalidHash,
		},
		{
			"next validators hash is empty",
			s.now,
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			nil,
			ibctm.ErrInvalidHash,
		},
		{
			"timestamp after year 9999",
			time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			s.valsHash,
			ibctm.ErrInvalidTimestamp,
		},
		{
			"zero timestamp is year 1 and representable",
			time.Time{},
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			s.valsHash,
			nil,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			consensusState, err := ibctm.NewConsensusState(tc.timestamp, tc.root, tc.nextValsHash)

			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().True(consensusState.Timestamp().Equal(tc.timestamp))
				s.Require().Equal(tc.root.GetHash(), consensusState.Root().GetHash())
				s.Require().Equal(tc.nextValsHash, []byte(consensusState.NextValidatorsHash()))
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TendermintTestSuite) TestConsensusStateValidateBasic() {
	testCases := []struct {
		name         string
		timestamp    time.Time
		root         commitmenttypes.MerkleRoot
		nextValsHash []byte
		expErr       error
	}{
		{
			"success",
			s.now,
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			s.valsHash,
			nil,
		},
		{
			"success with sentinel",
			s.now,
			commitmenttypes.NewMerkleRoot([]byte(ibctm.SentinelRoot)),
			s.valsHash,
			nil,
		},
		{
			"root is empty",
			s.now,
			commitmenttypes.MerkleRoot{},
			s.valsHash,
			clienttypes.ErrInvalidConsensus,
		},
		{
			"timestamp is zero",
			time.Time{},
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			s.valsHash,
			clienttypes.ErrInvalidConsensus,
		},
		{
			"timestamp is unix epoch",
			time.Unix(0, 0),
			commitmenttypes.NewMerkleRoot([]byte("app_hash")),
			s.valsHash,
			clienttypes.ErrInvalidConsensus,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			consensusState, err := ibctm.NewConsensusState(tc.timestamp, tc.root, tc.nextValsHash)
			s.Require().NoError(err)

			// check just to increase coverage
			s.Require().Equal(exported.Tendermint, consensusState.ClientType())
			s.Require().Equal(consensusState.GetRoot(), consensusState.Root())

			err = consensusState.ValidateBasic()
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TendermintTestSuite) TestConsensusStateGetTimestamp() {
	timestamp := time.Date(2023, 1, 1, 0, 0, 0, 500_000_000, time.UTC)
	consensusState, err := ibctm.NewConsensusState(timestamp, commitmenttypes.NewMerkleRoot(s.appHash), s.valsHash)
	s.Require().NoError(err)

	s.Require().Equal(uint64(timestamp.UnixNano()), consensusState.GetTimestamp())
	s.Require().Equal(time.UTC, consensusState.Timestamp().Location())
}

func (s *TendermintTestSuite) TestConsensusStateGetTimestampRange() {
	testCases := []struct {
		name         string
		timestamp    time.Time
		expTimestamp uint64
	}{
		{"unix epoch", time.Unix(0, 0), 0},
		{"one nanosecond after unix epoch", time.Unix(0, 1), 1},
		{"one nanosecond before unix epoch", time.Unix(-1, 999_999_999), 0},
		{"earliest representable time", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"after the int64 nanosecond range", time.Date(2300, 1, 1, 0, 0, 0, 7, time.UTC), 10413792000_000_000_007},
		{"largest uint64 nanosecond", time.Unix(18446744073, 709_551_615), math.MaxUint64},
		{"one nanosecond after the uint64 range", time.Unix(18446744073, 709_551_616), math.MaxUint64},
		{"latest representable time", time.Date(9999, 12, 31, 23, 59, 59, 999_999_999, time.UTC), math.MaxUint64},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			consensusState, err := ibctm.NewConsensusState(tc.timestamp, commitmenttypes.NewMerkleRoot(s.appHash), s.valsHash)
			s.Require().NoError(err)

			s.Require().Equal(tc.expTimestamp, consensusState.GetTimestamp())
		})
	}
}

func (s *TendermintTestSuite) TestConsensusStateImmutable() {
	root := commitmenttypes.NewMerkleRoot(bytesOf(0x01, 32))
	nextValsHash := bytesOf(0xAA, tmhash.Size)

	consensusState, err := ibctm.NewConsensusState(s.now, root, nextValsHash)
	s.Require().NoError(err)
	original := ibctm.MarshalConsensusState(consensusState)

	// mutate the inputs used for construction
	root.Hash[0] = 0xFF
	nextValsHash[0] = 0xFF

	// mutate the values handed out by the accessors
	consensusState.Root().Hash[1] = 0xFF
	consensusState.NextValidatorsHash()[1] = 0xFF
	consensusState.GetRoot().GetHash()[2] = 0xFF

	s.Require().Equal(original, ibctm.MarshalConsensusState(consensusState))
	s.Require().Equal(bytesOf(0x01, 32), consensusState.Root().GetHash())
	s.Require().Equal(bytesOf(0xAA, tmhash.Size), []byte(consensusState.NextValidatorsHash()))
}

func (s *TendermintTestSuite) TestConsensusStateEqual() {
	sameInstant := s.now.In(time.FixedZone("UTC+2", 2*60*60))

	other, err := ibctm.NewConsensusState(sameInstant, commitmenttypes.NewMerkleRoot(s.appHash), s.valsHash)
	s.Require().NoError(err)
	s.Require().True(s.consensusState.Equal(other))

	laterTime, err := ibctm.NewConsensusState(s.now.Add(time.Nanosecond), commitmenttypes.NewMerkleRoot(s.appHash), s.valsHash)
	s.Require().NoError(err)
	s.Require().False(s.consensusState.Equal(laterTime))

	otherRoot, err := ibctm.NewConsensusState(s.now, commitmenttypes.NewMerkleRoot([]byte("other")), s.valsHash)
	s.Require().NoError(err)
	s.Require().False(s.consensusState.Equal(otherRoot))

	otherHash, err := ibctm.NewConsensusState(s.now, commitmenttypes.NewMerkleRoot(s.appHash), tmhash.Sum([]byte("other")))
	s.Require().NoError(err)
	s.Require().False(s.consensusState.Equal(otherHash))
}
