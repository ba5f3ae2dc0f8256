package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/richinsley/mailbox"
	"github.com/richinsley/mailbox/internal/config"
	"github.com/richinsley/mailbox/internal/logging"
	"github.com/richinsley/mailbox/internal/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "mailbox",
	Short: "Transfer text lines between processes over System V IPC",
	Long: `mailbox moves text lines from a sender process to a receiver process
through either a System V message queue (mechanism 1) or a shared-memory
segment guarded by an empty/full semaphore pair (mechanism 2), and reports
the time spent inside the IPC calls.

Start the receiver and the sender from the same directory with the same
MAILBOX_* environment so both derive the same keys and semaphore names.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	verbose     bool
	reportPath  string
	metricsPath string
	logLevel    string
	keyPath     string
)

// environment is what setup builds for the subcommands.
type environment struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.Metrics
}

var env *environment

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every transferred line")
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", "", "write a MessagePack run report to this file")
	rootCmd.PersistentFlags().StringVar(&metricsPath, "metrics-file", "", "write prometheus metrics of the run to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides MAILBOX_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&keyPath, "key-path", "", "path used for key derivation; overrides MAILBOX_KEY_PATH")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if keyPath != "" {
		cfg.IPC.KeyPath = keyPath
	}
	if metricsPath != "" {
		cfg.Metrics.File = metricsPath
	}

	log, err := logging.New(logging.FromConfig(cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	env = &environment{cfg: cfg, log: log, metrics: metrics.New()}
	return nil
}

// Execute runs the root command and returns the process exit status. Errors
// are logged here, once, naming the failing operation.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	log := logging.NewDefault()
	if env != nil {
		log = env.log
	}
	log.Error("mailbox failed", zap.Error(err))
	_ = log.Sync()
	return exitCode(err)
}

// exitError carries a specific exit status up to Execute.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// finishRun writes the optional report and metrics file of a completed run.
func finishRun(kind mailbox.Kind, role mailbox.Role, stats *mailbox.Stats, started time.Time) error {
	if reportPath != "" {
		f, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		report := mailbox.NewReport(role, kind, stats, started, time.Now())
		if err := mailbox.WriteReport(f, report, nil); err != nil {
			f.Close()
			return fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if env.cfg.Metrics.File != "" {
		if err := env.metrics.WriteTextfile(env.cfg.Metrics.File); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
