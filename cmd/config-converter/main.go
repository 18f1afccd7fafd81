// Command config-converter mirrors a tree of UTF-8 config files as GB2312.
//
// Usage:
//
//	config-converter <source_dir> <destination_dir> [flags]
package main

import (
	"fmt"
	"os"

	"github.com/harrison/csvconv/internal/cmd"
	"github.com/harrison/csvconv/internal/models"
)

func main() {
	rootCmd := cmd.NewStandaloneCommand("config-converter", models.ProfileConfig)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
