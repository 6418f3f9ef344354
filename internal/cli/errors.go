package cli

import "errors"

// Sentinel errors for the analyze command.
var (
	ErrRemote     = errors.New("remote analysis failed")
	ErrNoSample   = errors.New("save-sample requires -sample")
	ErrBothInputs = errors.New("-sample cannot be combined with -deliveries or -matches")
)
