// Package display formats the user-facing messages of the csvconv commands:
// warnings, the final success line and the run history table.
//
// Warnings are printed in yellow with optional components:
//
//	warning := display.Warning{
//	    Title:      "Run history not recorded",
//	    Message:    "unable to open database file",
//	    Suggestion: "Check --history-db",
//	}
//	warning.Display(os.Stderr)
//
// Every function writes to an io.Writer. Colors come from
// github.com/fatih/color and are disabled automatically when output is not
// a terminal or NO_COLOR is set.
package display
