package action

import "errors"

// Domain errors for the action package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, action.ErrActionExists) {
//	    // report the conflict to the operator
//	}
var (
	// ErrActionExists is returned when an action for the level and scope already exists.
	ErrActionExists = errors.New("action: already exists")

	// ErrInvalidAction is returned when an action fails validation.
	ErrInvalidAction = errors.New("action: invalid")

	// ErrScopeNotFound is returned when a scope name does not exist.
	ErrScopeNotFound = errors.New("scope: not found")

	// ErrScopeExists is returned when renaming onto an existing scope name.
	ErrScopeExists = errors.New("scope: already exists")

	// ErrDefaultScope is returned when an operation would rename the Default scope.
	ErrDefaultScope = errors.New("scope: the Default scope cannot be renamed")

	// ErrInvalidScope is returned when a scope name is empty or too long.
	ErrInvalidScope = errors.New("scope: invalid name")
)
