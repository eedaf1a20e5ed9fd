package main

import (
	"os"

	"github.com/ComposableFi/ibc-go/v10/modules/light-clients/07-tendermint/client/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
