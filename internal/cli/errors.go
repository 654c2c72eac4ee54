package cli

import (
	"errors"
	"fmt"
)

type dateArgError struct {
	flag  string
	value string
	mask  string
}

func (e dateArgError) Error() string {
	return fmt.Sprintf("invalid %s %q: does not match %s", e.flag, e.value, e.mask)
}

func errDateArg(flag, value, mask string) error {
	return dateArgError{flag: flag, value: value, mask: mask}
}

type cancelledError struct{}

func (cancelledError) Error() string { return "cancelled" }

type unknownTopicError struct {
	topic string
}

func (e unknownTopicError) Error() string {
	return fmt.Sprintf("unknown docs topic: %q (run `datepick docs` to list topics)", e.topic)
}

// ExitCode maps a command error to a process exit status. A cancelled picker
// exits 130 like an interrupted shell command.
func ExitCode(err error) int {
	var ce cancelledError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ce):
		return 130
	default:
		return 1
	}
}
