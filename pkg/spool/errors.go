package spool

import "errors"

var (
	ErrInvalidConfig = errors.New("spool: invalid configuration")
	ErrInvalidName   = errors.New("spool: invalid file name") // Prevents path traversal

	ErrFailedToCreateDirectory = errors.New("spool: failed to create directory")
	ErrFailedToCreateFile      = errors.New("spool: failed to create file")
	ErrFailedToOpenFile        = errors.New("spool: failed to open file")
	ErrFailedToDeleteFile      = errors.New("spool: failed to delete file")
)
