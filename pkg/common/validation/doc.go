// Package validation provides common validation utilities for configuration
// and scheduling arguments across the schedexec library.
//
// Every helper returns a *errors.ValidationError, which matches
// errors.ErrInvalidConfiguration with errors.Is.
package validation
