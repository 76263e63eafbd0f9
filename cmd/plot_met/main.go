// Command plot_met renders a shot file's actuals and setpoints to a PNG, and can export the
// extracted series or print a summary of the file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
