package loader

import "errors"

var (
	errBadMagic = errors.New("loader: bad image magic")
	errTooSmall = errors.New("loader: image too small for header")
)
