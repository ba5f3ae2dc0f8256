package main

import (
	"os"

	"github.com/richinsley/mailbox/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
