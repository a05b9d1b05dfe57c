// contrastcheck - WCAG text contrast checker for design documents
//
// contrastcheck resolves the colours every visible text layer is actually
// rendered in and reports its contrast ratio against the WCAG thresholds.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/contrastcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
