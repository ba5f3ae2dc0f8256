// Package metrics records per-transfer prometheus metrics for a mailbox run
// and exports them as a textfile once the run ends.
package metrics
