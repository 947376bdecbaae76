package repository

import "errors"

// ErrNotFound is returned when a key has no stored blob.
var ErrNotFound = errors.New("not found")
