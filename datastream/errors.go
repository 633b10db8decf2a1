package datastream

import "errors"

var (
	ErrInvalidParams      = errors.New("invalid generator parameters")
	ErrInvalidMagic       = errors.New("invalid bench file magic")
	ErrUnsupportedVersion = errors.New("unsupported bench file version")
	ErrChecksumMismatch   = errors.New("bench file checksum mismatch")
	ErrInvalidOperation   = errors.New("invalid bench file operation")
)
