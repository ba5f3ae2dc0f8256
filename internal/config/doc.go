// Package config loads the mailbox tools' configuration from MAILBOX_*
// environment variables using envconfig, falling back to the well-known keys
// and semaphore names both processes default to.
package config
