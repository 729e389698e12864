// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package main is the entry point for the shortcut-sync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/similigh/shortcut-sync/cmd/shortcut-sync/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
