package tendermint

import (
	"bytes"
	"encoding/binary"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	metrics "github.com/hashicorp/go-metrics"

	clienttypes "github.com/ComposableFi/ibc-go/v10/modules/core/02-client/types"
	host "github.com/ComposableFi/ibc-go/v10/modules/core/24-host"
	"github.com/ComposableFi/ibc-go/v10/modules/core/exported"
	coremetrics "github.com/ComposableFi/ibc-go/v10/modules/core/metrics"
)

/*
This file contains the logic for storage and iteration over `IterationKey` metadata that is stored
for each consensus state. The consensus state key specified in ICS-24 and expected by counterparty chains
stores the consensus state under the key: `consensusStates/{revision_number}-{revision_height}`, with each number
represented as a string.
While this works fine for IBC proof verification, it makes efficient iteration difficult since the lexicographic order
of the consensus state keys do not match the height order of consensus states. This makes consensus state pruning and
monotonic time enforcement difficult since it is inefficient to find the earliest consensus state or to find the neighboring
consensus states given a consensus state height.
Changing the ICS-24 representation will be a major breaking change that requires counterparty chains to accept a new key format.
Thus to avoid breaking IBC, we can store a lookup from a more efficiently formatted key: `iterationKey` to the consensus state key which
stores the underlying consensus state. This efficient iteration key will be formatted like so: `iterateConsensusStates{BigEndianRevisionBytes}{BigEndianHeightBytes}`.
This ensures that the lexicographic order of iteration keys match the height order of the consensus states. Thus, we can use the SDK store's
Iterators to iterate over the consensus states in ascending/descending order by providing a mapping from `iterationKey -> consensusStateKey -> actual consensus state`.
*/

const (
	// KeyIterateConsensusStatePrefix is the client store prefix of the iteration keys.
	KeyIterateConsensusStatePrefix = "iterateConsensusStates"
)

var (
	// KeyProcessedTime is appended to consensus state key to store the processed time
	KeyProcessedTime = []byte("/processedTime")
	// KeyProcessedHeight is appended to consensus state key to store the processed height
	KeyProcessedHeight = []byte("/processedHeight")
)

// SetConsensusState stores the consensus state at the given height.
func SetConsensusState(clientStore storetypes.KVStore, consensusState ConsensusState, height exported.Height) {
	clientStore.Set(host.ConsensusStateKey(height), MarshalConsensusState(consensusState))
}

// GetConsensusState retrieves the consensus state from the client prefixed store.
// An error is returned if the consensus state does not exist or cannot be decoded;
// decoding errors keep their kind (missing field, invalid timestamp, invalid hash).
func GetConsensusState(clientStore storetypes.KVStore, height exported.Height) (ConsensusState, error) {
	bz := clientStore.Get(host.ConsensusStateKey(height))
	if len(bz) == 0 {
		return ConsensusState{}, errorsmod.Wrapf(
			clienttypes.ErrConsensusStateNotFound,
			"consensus state does not exist for height %s", height,
		)
	}

	consensusState, err := UnmarshalConsensusState(bz)
	if err != nil {
		return ConsensusState{}, errorsmod.Wrapf(err, "consensus state at height %s", height)
	}

	return consensusState, nil
}

// SetConsensusStateWithMetadata stores the consensus state together with the
// processed time, processed height and iteration key for height.
func SetConsensusStateWithMetadata(
	clientStore storetypes.KVStore, consensusState ConsensusState,
	height, processedHeight exported.Height, processedTime uint64,
) {
	SetConsensusState(clientStore, consensusState, height)
	setConsensusMetadataWithValues(clientStore, height, processedHeight, processedTime)
}

// deleteConsensusState deletes the consensus state at the given height
func deleteConsensusState(clientStore storetypes.KVStore, height exported.Height) {
	key := host.ConsensusStateKey(height)
	clientStore.Delete(key)
}

// IterateConsensusMetadata iterates through the prefix store and applies the callback.
// If the cb returns true, then iterator will close and stop.
func IterateConsensusMetadata(clientStore storetypes.KVStore, cb func(key, val []byte) bool) {
	iterator := storetypes.KVStorePrefixIterator(clientStore, []byte(host.KeyConsensusStatePrefix))

	// iterate over processed time and processed height
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		keySplit := bytes.Split(iterator.Key(), []byte("/"))
		// processed time key in prefix store has format: "consensusState/<height>/processedTime"
		if len(keySplit) != 3 {
			// ignore all consensus state keys
			continue
		}

		if !bytes.Equal(keySplit[2], []byte("processedTime")) && !bytes.Equal(keySplit[2], []byte("processedHeight")) {
			// only perform callback on consensus metadata
			continue
		}

		if cb(iterator.Key(), iterator.Value()) {
			break
		}
	}

	// iterate over iteration keys
	iterator = storetypes.KVStorePrefixIterator(clientStore, []byte(KeyIterateConsensusStatePrefix))

	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		if cb(iterator.Key(), iterator.Value()) {
			break
		}
	}
}

// ProcessedTimeKey returns the key under which the processed time will be stored in the client store.
func ProcessedTimeKey(height exported.Height) []byte {
	return append(host.ConsensusStateKey(height), KeyProcessedTime...)
}

// SetProcessedTime stores the time at which a header was processed and the corresponding consensus state was created.
// This is useful when validating whether a packet has reached the time specified delay period in the tendermint client's
// verification functions
func SetProcessedTime(clientStore storetypes.KVStore, height exported.Height, timeNs uint64) {
	key := ProcessedTimeKey(height)
	val := sdk.Uint64ToBigEndian(timeNs)
	clientStore.Set(key, val)
}

// GetProcessedTime gets the time (in nanoseconds) at which this chain received and processed a tendermint header.
// This is used to validate that a received packet has passed the time delay period.
func GetProcessedTime(clientStore storetypes.KVStore, height exported.Height) (uint64, bool) {
	key := ProcessedTimeKey(height)
	bz := clientStore.Get(key)
	if len(bz) == 0 {
		return 0, false
	}
	return sdk.BigEndianToUint64(bz), true
}

// deleteProcessedTime deletes the processedTime for a given height
func deleteProcessedTime(clientStore storetypes.KVStore, height exported.Height) {
	key := ProcessedTimeKey(height)
	clientStore.Delete(key)
}

// ProcessedHeightKey returns the key under which the processed height will be stored in the client store.
func ProcessedHeightKey(height exported.Height) []byte {
	return append(host.ConsensusStateKey(height), KeyProcessedHeight...)
}

// SetProcessedHeight stores the height at which a header was processed and the corresponding consensus state was created.
// This is useful when validating whether a packet has reached the specified block delay period in the tendermint client's
// verification functions
func SetProcessedHeight(clientStore storetypes.KVStore, consHeight, processedHeight exported.Height) {
	key := ProcessedHeightKey(consHeight)
	val := []byte(processedHeight.String())
	clientStore.Set(key, val)
}

// GetProcessedHeight gets the height at which this chain received and processed a tendermint header.
// This is used to validate that a received packet has passed the block delay period.
func GetProcessedHeight(clientStore storetypes.KVStore, height exported.Height) (exported.Height, bool) {
	key := ProcessedHeightKey(height)
	bz := clientStore.Get(key)
	if len(bz) == 0 {
		return nil, false
	}
	processedHeight, err := clienttypes.ParseHeight(string(bz))
	if err != nil {
		return nil, false
	}
	return processedHeight, true
}

// deleteProcessedHeight deletes the processedHeight for a given height
func deleteProcessedHeight(clientStore storetypes.KVStore, height exported.Height) {
	key := ProcessedHeightKey(height)
	clientStore.Delete(key)
}

// IterationKey returns the key under which the consensus state key will be stored.
// The iteration key is a BigEndian representation of the consensus state key to support efficient iteration.
func IterationKey(height exported.Height) []byte {
	heightBytes := bigEndianHeightBytes(height)
	return append([]byte(KeyIterateConsensusStatePrefix), heightBytes...)
}

// SetIterationKey stores the consensus state key under a key that is more efficient for ordered iteration
func SetIterationKey(clientStore storetypes.KVStore, height exported.Height) {
	key := IterationKey(height)
	val := host.ConsensusStateKey(height)
	clientStore.Set(key, val)
}

// GetIterationKey returns the consensus state key stored under the efficient iteration key.
// NOTE: This function is currently only used for testing purposes
func GetIterationKey(clientStore storetypes.KVStore, height exported.Height) []byte {
	key := IterationKey(height)
	return clientStore.Get(key)
}

// deleteIterationKey deletes the iteration key for a given height
func deleteIterationKey(clientStore storetypes.KVStore, height exported.Height) {
	key := IterationKey(height)
	clientStore.Delete(key)
}

// GetHeightFromIterationKey takes an iteration key and returns the height that it references
func GetHeightFromIterationKey(iterKey []byte) exported.Height {
	bigEndianBytes := iterKey[len([]byte(KeyIterateConsensusStatePrefix)):]
	revisionBytes := bigEndianBytes[0:8]
	heightBytes := bigEndianBytes[8:]
	revision := binary.BigEndian.Uint64(revisionBytes)
	height := binary.BigEndian.Uint64(heightBytes)
	return clienttypes.NewHeight(revision, height)
}

// IterateConsensusStateAscending iterates through the consensus states in ascending order. It calls the provided
// callback on each height, until stop=true is returned.
func IterateConsensusStateAscending(clientStore storetypes.KVStore, cb func(height exported.Height) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(clientStore, []byte(KeyIterateConsensusStatePrefix))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		iterKey := iterator.Key()
		height := GetHeightFromIterationKey(iterKey)
		if cb(height) {
			break
		}
	}
}

// GetNextConsensusState returns the lowest consensus state that is larger than the given height.
// The Iterator returns a storetypes.Iterator which iterates from start (inclusive) to end (exclusive).
// If the starting height exists in store, we need to call iterator.Next() to get the next consenus state.
// Otherwise, the iterator is already at the next consensus state so we can call iterator.Value() immediately.
func GetNextConsensusState(clientStore storetypes.KVStore, height exported.Height) (ConsensusState, bool) {
	iterateStore := prefix.NewStore(clientStore, []byte(KeyIterateConsensusStatePrefix))
	iterator := iterateStore.Iterator(bigEndianHeightBytes(height), nil)
	defer iterator.Close()
	if !iterator.Valid() {
		return ConsensusState{}, false
	}

	// if iterator is at current height, ignore the consensus state at current height and get next height
	// if iterator value is not at current height, it is already at next height.
	if bytes.Equal(iterator.Value(), host.ConsensusStateKey(height)) {
		iterator.Next()
		if !iterator.Valid() {
			return ConsensusState{}, false
		}
	}

	csKey := iterator.Value()

	return getTmConsensusState(clientStore, csKey)
}

// GetPreviousConsensusState returns the highest consensus state that is lower than the given height.
// The Iterator returns a storetypes.Iterator which iterates from the end (exclusive) to start (inclusive).
// Thus to get previous consensus state we call iterator.Value() immediately.
func GetPreviousConsensusState(clientStore storetypes.KVStore, height exported.Height) (ConsensusState, bool) {
	iterateStore := prefix.NewStore(clientStore, []byte(KeyIterateConsensusStatePrefix))
	iterator := iterateStore.ReverseIterator(nil, bigEndianHeightBytes(height))
	defer iterator.Close()

	if !iterator.Valid() {
		return ConsensusState{}, false
	}

	csKey := iterator.Value()

	return getTmConsensusState(clientStore, csKey)
}

// IsExpired returns whether or not the consensus state has passed the
// trusting period at the provided block time.
func IsExpired(consensusState ConsensusState, now time.Time, trustingPeriod time.Duration) bool {
	expirationTime := consensusState.Timestamp().Add(trustingPeriod)
	return !expirationTime.After(now)
}

// PruneAllExpiredConsensusStates iterates over all consensus states for a given
// client store. If a consensus state is expired, it is deleted and its metadata
// is deleted. The number of consensus states pruned is returned.
func PruneAllExpiredConsensusStates(
	logger log.Logger, clientStore storetypes.KVStore, now time.Time, trustingPeriod time.Duration,
) int {
	var heights []exported.Height

	pruneCb := func(height exported.Height) bool {
		consState, err := GetConsensusState(clientStore, height)
		if err != nil {
			logger.Error("skipping undecodable consensus state during pruning", "height", height, "error", err)
			return false
		}

		if IsExpired(consState, now, trustingPeriod) {
			heights = append(heights, height)
		}

		return false
	}

	IterateConsensusStateAscending(clientStore, pruneCb)

	for _, height := range heights {
		deleteConsensusState(clientStore, height)
		deleteConsensusMetadata(clientStore, height)
		logger.Debug("pruned expired tendermint consensus state", "height", height)
	}

	if len(heights) > 0 {
		logger.Info("pruned expired tendermint consensus states", "count", len(heights))

		telemetry.IncrCounterWithLabels(
			[]string{"ibc", "client", "prune"},
			float32(len(heights)),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelClientType, exported.Tendermint)},
		)
	}

	return len(heights)
}

// Helper function for GetNextConsensusState and GetPreviousConsensusState
func getTmConsensusState(clientStore storetypes.KVStore, key []byte) (ConsensusState, bool) {
	bz := clientStore.Get(key)
	if len(bz) == 0 {
		return ConsensusState{}, false
	}

	consensusState, err := UnmarshalConsensusState(bz)
	if err != nil {
		return ConsensusState{}, false
	}

	return consensusState, true
}

func bigEndianHeightBytes(height exported.Height) []byte {
	heightBytes := make([]byte, 16)
	binary.BigEndian.PutUint64(heightBytes, height.GetRevisionNumber())
	binary.BigEndian.PutUint64(heightBytes[8:], height.GetRevisionHeight())
	return heightBytes
}

// setConsensusMetadataWithValues sets the consensus metadata with the provided values
func setConsensusMetadataWithValues(
	clientStore storetypes.KVStore, height,
	processedHeight exported.Height,
	processedTime uint64,
) {
	SetProcessedTime(clientStore, height, processedTime)
	SetProcessedHeight(clientStore, height, processedHeight)
	SetIterationKey(clientStore, height)
}

// deleteConsensusMetadata deletes the metadata stored for a particular consensus state.
func deleteConsensusMetadata(clientStore storetypes.KVStore, height exported.Height) {
	deleteProcessedTime(clientStore, height)
	deleteProcessedHeight(clientStore, height)
	deleteIterationKey(clientStore, height)
}
