// Command engagement-admin runs maintenance tasks against the engagement
// database: rebuilding rating aggregates and minting development tokens.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
