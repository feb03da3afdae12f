// filepath: internal/cli/history.go
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"streamstore/internal/models"
	"streamstore/internal/repository"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd prints the most recent uploads.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd.OutOrStdout(), historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of uploads to show.")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(out io.Writer, limit int) error {
	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.ValidateSchema(); err != nil {
		return err
	}

	records, err := repo.ListUploads(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No uploads recorded.")
		return nil
	}
	printHistory(out, records)
	return nil
}

func printHistory(out io.Writer, records []models.UploadRecord) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tSTATUS\tSIZE\tCHUNKS\tFAULTS\tSTARTED\tDURATION")
	for _, r := range records {
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Label, r.Status, humanize.Bytes(uint64(r.Bytes)), r.Chunks, r.WriteFaults,
			humanize.Time(r.StartedAt), duration)
	}
	tw.Flush()
}
