package tui

import "errors"

var (
	errCredentialsRequired = errors.New("username and password are required")
	errNoNodeSelected      = errors.New("no node selected")
	errNoMessageSelected   = errors.New("no message selected")
)
