package errors

import (
	"errors"
	"fmt"
)

var (
	ErrJournalDirNotFound = errors.New("journal directory not found")
	ErrNoJournals         = errors.New("no journal files found")
	ErrJournalUnreadable  = errors.New("journal file unreadable")
	ErrMalformedRecord    = errors.New("malformed journal record")
	ErrMonitorRunning     = errors.New("monitor already running")
	ErrMonitorStopped     = errors.New("monitor not running")
	ErrConfigNotFound     = errors.New("config not found")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrInvalidInterval    = errors.New("invalid poll interval")
	ErrInvalidFilter      = errors.New("invalid filter expression")
	ErrStateFileWrite     = errors.New("state file write failed")
)

func NewDirError(dir string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrJournalDirNotFound, dir, reason)
}

func NewJournalError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrJournalUnreadable, path, reason)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}

func NewFilterError(name string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidFilter, name, reason)
}
