package memory

import "errors"

var errOutOfRange = errors.New("memory: range exceeds physical memory size")
