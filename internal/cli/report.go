package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/richinsley/mailbox"
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Print a run report written with --report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	r, err := mailbox.ReadReport(f, nil)
	if err != nil {
		return fmt.Errorf("decode report: %w", err)
	}
	printReport(cmd.OutOrStdout(), r)
	return nil
}

func printReport(w io.Writer, r mailbox.Report) {
	fmt.Fprintf(w, "Role:       %s\n", r.Role)
	fmt.Fprintf(w, "Backend:    %s (mechanism=%d)\n", r.Backend, r.Mechanism)
	fmt.Fprintf(w, "Transfers:  %d\n", r.Transfers)
	fmt.Fprintf(w, "Bytes:      %d\n", r.Bytes)
	fmt.Fprintf(w, "IPC time:   %.6f sec\n", r.IPCTime.Seconds())
	fmt.Fprintf(w, "Wall time:  %.6f sec\n", r.FinishedAt.Sub(r.StartedAt).Seconds())
	fmt.Fprintf(w, "Finished:   %s\n", r.FinishedAt.Format(time.RFC3339))
}
