// assetctl is a command-line client for the asset hierarchy gRPC API.
package main

import (
	"fmt"
	"os"

	"asset-hierarchy/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.DialGRPC).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
