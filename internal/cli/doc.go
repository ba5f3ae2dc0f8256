// Package cli implements the mailbox command: the send and receive entry
// points of a transfer plus the report and clean helpers.
package cli
