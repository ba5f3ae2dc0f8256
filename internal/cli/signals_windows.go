package cli

import (
	"os"
	"os/signal"
)

// setSignalsForChannel configures the channel to receive os.Interrupt.
func setSignalsForChannel(c chan os.Signal) {
	signal.Notify(c, os.Interrupt)
}
