package controller

import "errors"

var (
	// ErrStopped is returned by Do once Run has returned.
	ErrStopped = errors.New("controller: stopped")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("controller: already running")
)
