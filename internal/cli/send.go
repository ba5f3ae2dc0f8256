package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/richinsley/mailbox"
)

var sendCmd = &cobra.Command{
	Use:   "send <1|2|queue|shm> <input-file>",
	Short: "Send every line of a file, then the end-of-stream sentinel",
	Long: `Send opens the selected mailbox as the producer, sends one message per
line of the input file followed by the __EXIT__ sentinel, and prints the
cumulative time spent inside the IPC calls.

The producer only detaches on exit; the receiver destroys the resources.`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	kind, err := mailbox.ParseKind(args[0])
	if err != nil {
		return err
	}

	mb, err := mailbox.Open(env.cfg.Mailbox(), kind, mailbox.RoleProducer)
	if err != nil {
		env.metrics.RecordError(kind, err)
		return err
	}
	log := env.log.ForMailbox(mb)
	log.Debug("mailbox opened")

	f, err := os.Open(args[1])
	if err != nil {
		return &exitError{code: 2, err: errors.Join(fmt.Errorf("open input: %w", err), mb.Close())}
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	var sent func(mailbox.Message)
	if verbose {
		sent = func(msg mailbox.Message) {
			if !msg.IsSentinel() {
				fmt.Fprintf(out, "[sender] %s\n", msg.Text)
			}
		}
	}

	stats := &mailbox.Stats{Observe: env.metrics.Observer(kind, mailbox.RoleProducer)}
	started := time.Now()
	if err := mailbox.SendLines(mb, f, stats, sent); err != nil {
		env.metrics.RecordError(kind, err)
		return errors.Join(err, mb.Close())
	}

	fmt.Fprintf(out, "Total sending time (mechanism=%d): %.6f sec\n", int(kind), stats.Seconds())
	log.Info("send complete",
		zap.Int("transfers", stats.Count()),
		zap.Duration("elapsed", stats.Total()))

	if err := mb.Close(); err != nil {
		return err
	}
	return finishRun(kind, mailbox.RoleProducer, stats, started)
}
