// Command partconfig generates ERP item descriptions, quality blocks and
// DataLoad transport files for pump spare parts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
