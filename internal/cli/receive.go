package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/richinsley/mailbox"
)

var receiveCmd = &cobra.Command{
	Use:   "receive <1|2|queue|shm>",
	Short: "Receive messages until the end-of-stream sentinel",
	Long: `Receive opens the selected mailbox as the consumer and receives until the
__EXIT__ sentinel arrives, then prints the cumulative time spent inside the
IPC calls and destroys the queue, or the segment and both semaphores.

An interrupt while waiting removes the resources before exiting.`,
	Args: cobra.ExactArgs(1),
	RunE: runReceive,
}

func init() {
	rootCmd.AddCommand(receiveCmd)
}

func runReceive(cmd *cobra.Command, args []string) error {
	kind, err := mailbox.ParseKind(args[0])
	if err != nil {
		return err
	}

	cfg := env.cfg.Mailbox()
	mb, err := mailbox.Open(cfg, kind, mailbox.RoleConsumer)
	if err != nil {
		env.metrics.RecordError(kind, err)
		return err
	}
	log := env.log.ForMailbox(mb)
	log.Debug("mailbox opened")

	out := cmd.OutOrStdout()
	var received func(mailbox.Message)
	if verbose {
		received = func(msg mailbox.Message) {
			if !msg.IsSentinel() {
				fmt.Fprintf(out, "[receiver] %s\n", msg.Text)
			}
		}
	}

	stats := &mailbox.Stats{Observe: env.metrics.Observer(kind, mailbox.RoleConsumer)}
	started := time.Now()

	// Receive has no timeout, so the loop runs on its own goroutine and an
	// interrupt can still tear the resources down.
	done := make(chan error, 1)
	go func() {
		done <- mailbox.ReceiveUntilSentinel(mb, stats, received)
	}()

	sigs := make(chan os.Signal, 1)
	setSignalsForChannel(sigs)
	defer signal.Stop(sigs)

	select {
	case err := <-done:
		if err != nil {
			env.metrics.RecordError(kind, err)
			return errors.Join(err, mb.Close())
		}
	case sig := <-sigs:
		log.Warn("interrupted, removing mailbox resources", zap.Stringer("signal", sig))
		if err := mailbox.Remove(cfg, kind); err != nil {
			return err
		}
		return &exitError{code: 130, err: fmt.Errorf("interrupted by %s", sig)}
	}

	fmt.Fprintf(out, "Total receiving time (mechanism=%d): %.6f sec\n", int(kind), stats.Seconds())
	log.Info("receive complete",
		zap.Int("transfers", stats.Count()),
		zap.Duration("elapsed", stats.Total()))

	if err := mb.Close(); err != nil {
		env.metrics.RecordError(kind, err)
		return err
	}
	return finishRun(kind, mailbox.RoleConsumer, stats, started)
}
