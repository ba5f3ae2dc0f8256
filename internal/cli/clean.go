package cli

import (
	"github.com/spf13/cobra"

	"github.com/richinsley/mailbox"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <1|2|queue|shm>",
	Short: "Remove resources left behind by an interrupted run",
	Long: `Clean destroys the message queue, or the shared-memory segment and both
named semaphores, that the current configuration refers to. Resources that
do not exist are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	kind, err := mailbox.ParseKind(args[0])
	if err != nil {
		return err
	}
	if err := mailbox.Remove(env.cfg.Mailbox(), kind); err != nil {
		return err
	}
	env.log.Info("removed mailbox resources")
	return nil
}
