package cmd

import (
	"github.com/harrison/csvconv/internal/models"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for csvconv
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csvconv",
		Short: "Re-encode CSV and config trees between UTF-8 and GB2312",
		Long: `csvconv mirrors a directory tree of CSV files into a destination
directory, re-encoding every file whose detected encoding is in the
selected profile and copying all other files unchanged.

Profiles:
  csv      GB2312/GBK/GB18030 -> UTF-8
  config   UTF-8 -> GB2312`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewConvertCommand(models.ProfileCSV))
	cmd.AddCommand(NewConvertCommand(models.ProfileConfig))
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
