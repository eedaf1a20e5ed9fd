package tendermint_test

import (
	"time"

	gogotypes "github.com/cosmos/gogoproto/types"

	ibctm "github.com/ComposableFi/ibc-go/v10/modules/light-clients/07-tendermint"
)

func (s *TendermintTestSuite) TestTimestampValidate() {
	testCases := []struct {
		name      string
		timestamp ibctm.Timestamp
		expErr    error
	}{
		{"unix epoch", ibctm.Timestamp{}, nil},
		{"earliest second", ibctm.Timestamp{Seconds: -62135596800}, nil},
		{"latest nanosecond", ibctm.Timestamp{Seconds: 253402300799, Nanos: 999_999_999}, nil},
		{"before earliest second", ibctm.Timestamp{Seconds: -62135596801, Nanos: 999_999_999}, ibctm.ErrInvalidTimestamp},
		{"after latest second", ibctm.Timestamp{Seconds: 253402300800}, ibctm.ErrInvalidTimestamp},
		{"negative nanos", ibctm.Timestamp{Seconds: 1, Nanos: -1}, ibctm.ErrInvalidTimestamp},
		{"nanos are a full second", ibctm.Timestamp{Seconds: 1, Nanos: 1_000_000_000}, ibctm.ErrInvalidTimestamp},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.timestamp.Validate()

			if tc.expErr == nil {
				s.Require().NoError(err)

				t, err := tc.timestamp.Time()
				s.Require().NoError(err)
				s.Require().Equal(tc.timestamp, ibctm.NewTimestampFromTime(t))
			} else {
				s.Require().ErrorIs(err, tc.expErr)

				t, err := tc.timestamp.Time()
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().True(t.IsZero())
			}
		})
	}
}

func (s *TendermintTestSuite) TestNewTimestampFromTime() {
	// nanos are always non-negative, also before the unix epoch
	ts := ibctm.NewTimestampFromTime(time.Unix(-1, 500))
	s.Require().Equal(ibctm.Timestamp{Seconds: -1, Nanos: 500}, ts)

	// the location is dropped, the instant is kept
	local := time.Date(2023, 1, 1, 1, 0, 0, 500_000_000, time.FixedZone("UTC+1", 60*60))
	ts = ibctm.NewTimestampFromTime(local)
	s.Require().Equal(ibctm.Timestamp{Seconds: 1672531200, Nanos: 500_000_000}, ts)

	t, err := ts.Time()
	s.Require().NoError(err)
	s.Require().True(local.Equal(t))
	s.Require().Equal(time.UTC, t.Location())

	// the monotonic clock reading is dropped
	now := time.Now()
	t, err = ibctm.NewTimestampFromTime(now).Time()
	s.Require().NoError(err)
	s.Require().True(now.Equal(t))
	s.Require().Equal(time.UTC, t.Location())
}

func (s *TendermintTestSuite) TestTimestampProto() {
	ts := ibctm.Timestamp{Seconds: 1672531200, Nanos: 500_000_000}

	pb := ts.ToProto()
	s.Require().Equal(&gogotypes.Timestamp{Seconds: 1672531200, Nanos: 500_000_000}, pb)
	s.Require().Equal(ts, ibctm.NewTimestampFromProto(pb))

	// out of range values are carried over and only rejected on validation
	invalid := ibctm.NewTimestampFromProto(&gogotypes.Timestamp{Seconds: 1, Nanos: -5})
	s.Require().Equal(int32(-5), invalid.Nanos)
	s.Require().ErrorIs(invalid.Validate(), ibctm.ErrInvalidTimestamp)
}
