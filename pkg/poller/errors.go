package poller

import "errors"

var (
	ErrFeedExists  = errors.New("feed already registered")
	ErrUnknownFeed = errors.New("unknown feed")
)
