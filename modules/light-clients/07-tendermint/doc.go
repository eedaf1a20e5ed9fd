/*
Package tendermint implements the ConsensusState and Header types of the
Tendermint consensus light client, together with the protobuf wire codec for
ibc.lightclients.tendermint.v1.ConsensusState and helpers for keeping
consensus states in a client prefixed store.
This implementation is based off the ICS 07 specification
(https://github.com/cosmos/ibc/tree/main/spec/client/ics-007-tendermint-client)
*/
package tendermint
