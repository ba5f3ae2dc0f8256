// Package logging provides the structured zap logger used by the mailbox
// command: JSON in production, colored console output in development.
package logging
