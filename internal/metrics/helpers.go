package metrics

import (
	"errors"

	"github.com/richinsley/mailbox"
)

func asOpError(err error) (*mailbox.OpError, bool) {
	var opErr *mailbox.OpError
	if errors.As(err, &opErr) {
		return opErr, true
	}
	return nil, false
}
