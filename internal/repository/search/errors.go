package search

import "errors"

var ErrNotFound = errors.New("cached result not found")
