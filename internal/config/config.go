package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/richinsley/mailbox"
)

// Prefix is the environment variable prefix, e.g. MAILBOX_KEY_PATH.
const Prefix = "MAILBOX"

// Config holds all application configuration.
type Config struct {
	IPC     IPCConfig
	Logging LogConfig
	Metrics MetricsConfig
}

// IPCConfig is the contract shared by producer and consumer. Both processes
// must load identical values for their keys and semaphore names to agree.
type IPCConfig struct {
	KeyPath            string `envconfig:"KEY_PATH" default:"."`
	QueueProjID        int    `envconfig:"QUEUE_PROJ_ID" default:"0x51"`
	SharedMemoryProjID int    `envconfig:"SHM_PROJ_ID" default:"0x52"`
	SemEmpty           string `envconfig:"SEM_EMPTY" default:"/lab1_sem_empty"`
	SemFull            string `envconfig:"SEM_FULL" default:"/lab1_sem_full"`
	Perm               uint32 `envconfig:"PERM" default:"0666"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	// File receives the prometheus text exposition of a run when set.
	File string `envconfig:"METRICS_FILE"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	for _, section := range []interface{}{&cfg.IPC, &cfg.Logging, &cfg.Metrics} {
		if err := envconfig.Process(Prefix, section); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	def := mailbox.DefaultConfig()
	return &Config{
		IPC: IPCConfig{
			KeyPath:            def.KeyPath,
			QueueProjID:        def.QueueProjID,
			SharedMemoryProjID: def.SharedMemoryProjID,
			SemEmpty:           def.SemEmptyName,
			SemFull:            def.SemFullName,
			Perm:               uint32(def.Perm),
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate rejects values that would make the two processes disagree or the
// kernel refuse the resources.
func (c *Config) Validate() error {
	var errs []error
	if c.IPC.KeyPath == "" {
		errs = append(errs, errors.New("key path must not be empty"))
	}
	for name, id := range map[string]int{"queue": c.IPC.QueueProjID, "shm": c.IPC.SharedMemoryProjID} {
		if id&0xff == 0 {
			errs = append(errs, fmt.Errorf("%s project id %#x has a zero low byte", name, id))
		}
	}
	if c.IPC.QueueProjID&0xff == c.IPC.SharedMemoryProjID&0xff && c.IPC.QueueProjID&0xff != 0 {
		errs = append(errs, errors.New("queue and shm project ids derive the same key"))
	}
	for _, name := range []string{c.IPC.SemEmpty, c.IPC.SemFull} {
		if err := validSemaphoreName(name); err != nil {
			errs = append(errs, err)
		}
	}
	if c.IPC.SemEmpty == c.IPC.SemFull {
		errs = append(errs, errors.New("empty and full semaphores must have different names"))
	}
	if c.IPC.Perm&^0777 != 0 {
		errs = append(errs, fmt.Errorf("perm %#o has bits outside 0777", c.IPC.Perm))
	}
	return errors.Join(errs...)
}

func validSemaphoreName(name string) error {
	if !strings.HasPrefix(name, "/") || len(name) < 2 || strings.Contains(name[1:], "/") {
		return fmt.Errorf("semaphore name %q must be a single leading slash followed by a name", name)
	}
	return nil
}

// Mailbox converts the IPC section to the mailbox package's contract.
func (c *Config) Mailbox() mailbox.Config {
	return mailbox.Config{
		KeyPath:            c.IPC.KeyPath,
		QueueProjID:        c.IPC.QueueProjID,
		SharedMemoryProjID: c.IPC.SharedMemoryProjID,
		SemEmptyName:       c.IPC.SemEmpty,
		SemFullName:        c.IPC.SemFull,
		Perm:               os.FileMode(c.IPC.Perm),
	}
}
