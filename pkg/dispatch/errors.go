package dispatch

import (
	"errors"
	"fmt"

	"github.com/ringnet/console/pkg/models"
)

var (
	ErrNoSession       = errors.New("no active session")
	ErrEmptyNodeID     = errors.New("node id must not be empty")
	ErrEmptyMessageID  = errors.New("message id must not be empty")
	ErrMissingReceiver = errors.New("receiver node must be selected")
	ErrEmptyContent    = errors.New("message content must not be empty")
	ErrContentTooLong  = fmt.Errorf("message content exceeds %d characters", models.MaxMessageContentLength)
	ErrEmptyUsername   = errors.New("username must not be empty")
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrRootImmutable   = errors.New("root account cannot be modified or deleted")
	ErrLastAdmin       = errors.New("cannot remove the last administrator")
)
