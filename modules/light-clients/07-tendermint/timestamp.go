package tendermint

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	cmttime "github.com/cometbft/cometbft/types/time"
	gogotypes "github.com/cosmos/gogoproto/types"
)

const (
	// minTimestampSeconds is 0001-01-01T00:00:00Z in seconds since the unix epoch.
	minTimestampSeconds int64 = -62135596800
	// maxTimestampSeconds is 10000-01-01T00:00:00Z in seconds since the unix epoch, exclusive.
	maxTimestampSeconds int64 = 253402300800

	nanosPerSecond int32 = 1e9
)

// Timestamp is the seconds and nanoseconds pair every consensus state
// timestamp passes through on its way between time.Time and the
// google.protobuf.Timestamp wire message. Conversions never go directly from
// one library type to the other so the range and precision rules stay the
// ones defined here.
type Timestamp struct {
	// Seconds since 1970-01-01T00:00:00Z, within [0001-01-01, 9999-12-31].
	Seconds int64
	// Non-negative fraction of a second, within [0, 1e9).
	Nanos int32
}

// NewTimestampFromTime returns the Timestamp of the instant t. The location
// and monotonic clock reading of t are dropped.
func NewTimestampFromTime(t time.Time) Timestamp {
	t = cmttime.Canonical(t)
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

// NewTimestampFromProto copies the fields of a wire timestamp without
// validating them.
func NewTimestampFromProto(ts *gogotypes.Timestamp) Timestamp {
	return Timestamp{
		Seconds: ts.Seconds,
		Nanos:   ts.Nanos,
	}
}

// ToProto returns the wire representation of the timestamp.
func (ts Timestamp) ToProto() *gogotypes.Timestamp {
	return &gogotypes.Timestamp{
		Seconds: ts.Seconds,
		Nanos:   ts.Nanos,
	}
}

// Validate checks that the timestamp lies within the protobuf Timestamp range
// and that its nanoseconds are normalized.
func (ts Timestamp) Validate() error {
	switch {
	case ts.Nanos < 0 || ts.Nanos >= nanosPerSecond:
		return errorsmod.Wrapf(ErrInvalidTimestamp, "nanos %d out of range [0, %d)", ts.Nanos, nanosPerSecond)
	case ts.Seconds < minTimestampSeconds:
		return errorsmod.Wrapf(ErrInvalidTimestamp, "seconds %d before 0001-01-01", ts.Seconds)
	case ts.Seconds >= maxTimestampSeconds:
		return errorsmod.Wrapf(ErrInvalidTimestamp, "seconds %d after 9999-12-31", ts.Seconds)
	}
	return nil
}

// Time converts the timestamp into a UTC time.Time.
func (ts Timestamp) Time() (time.Time, error) {
	if err := ts.Validate(); err != nil {
		return time.Time{}, err
	}
	return cmttime.Canonical(time.Unix(ts.Seconds, int64(ts.Nanos))), nil
}
