// Command flowctl works with exported flow documents from the shell:
// creating a starter document, applying a layout, validating, and
// summarizing.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
