package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/harrison/csvconv/internal/history"
	"github.com/harrison/csvconv/internal/models"
)

// SummaryLine returns "<success>/<total> files processed successfully"
func SummaryLine(run *models.RunResult) string {
	return fmt.Sprintf("%d/%d files processed successfully", run.Succeeded(), run.Total)
}

// PrintSummary writes the summary line, green when every file succeeded
// and red otherwise.
func PrintSummary(out io.Writer, run *models.RunResult) {
	c := color.New(color.FgGreen)
	if !run.OK() {
		c = color.New(color.FgRed)
	}
	c.Fprintln(out, SummaryLine(run))
}

// PrintRuns writes recorded runs as an aligned table, most recent first
func PrintRuns(out io.Writer, runs []history.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tPROFILE\tRESULT\tCONVERTED\tCOPIED\tFAILED\tSOURCE\tDESTINATION")
	for _, r := range runs {
		id := r.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		result := fmt.Sprintf("%d/%d", r.Succeeded(), r.Total)
		if r.DryRun {
			result += " (dry)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			id,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Profile,
			result,
			r.Converted,
			r.Copied,
			r.Failed,
			r.SourceRoot,
			r.DestRoot,
		)
	}
	tw.Flush()
}

// PrintFailedFiles writes the failed files of one recorded run
func PrintFailedFiles(out io.Writer, runID string, files []history.FileRecord) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(out, "Failed files in run %s:\n", runID)
	for _, f := range files {
		fmt.Fprintf(out, "  - %s: %s\n", f.RelPath, f.ErrorMessage)
	}
}
