package domain

import "errors"

var (
	// ErrValidation marks a record that failed date, URL or field validation.
	ErrValidation = errors.New("invalid outage record")

	// ErrProvider marks a transport or provider failure during a fetch.
	ErrProvider = errors.New("news provider error")

	// ErrStorage marks a malformed or unreadable backing dataset.
	ErrStorage = errors.New("dataset storage error")
)
