package types

import (
	"fmt"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	host "github.com/ComposableFi/ibc-go/v10/modules/core/24-host"
)

// ClientStore returns isolated prefix store for each client so they can read/write in separate namespaces.
func ClientStore(store storetypes.KVStore, clientID string) storetypes.KVStore {
	clientPrefix := []byte(fmt.Sprintf("%s/%s/", host.KeyClientStorePrefix, clientID))
	return prefix.NewStore(store, clientPrefix)
}
