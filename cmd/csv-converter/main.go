// Command csv-converter mirrors a tree of GB2312 encoded CSV files as UTF-8.
//
// Usage:
//
//	csv-converter <source_dir> <destination_dir> [flags]
package main

import (
	"fmt"
	"os"

	"github.com/harrison/csvconv/internal/cmd"
	"github.com/harrison/csvconv/internal/models"
)

func main() {
	rootCmd := cmd.NewStandaloneCommand("csv-converter", models.ProfileCSV)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
