package testutil

import "errors"

// ErrSimulated is returned by fakes standing in for a failing journal or store.
var ErrSimulated = errors.New("simulated failure")
