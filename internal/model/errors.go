package model

import "errors"

var (
	// Node/trash lookup errors
	ErrNodeNotFound       = errors.New("node not found")
	ErrTrashEntryNotFound = errors.New("trash entry not found")

	// Authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrAccessDenied    = errors.New("access denied")

	// Operation errors
	ErrInvalidOperation = errors.New("invalid operation for this node kind")
	ErrParentNotExist   = errors.New("parent directory does not exist")

	// Declared for sibling name collisions. No mutation path raises it yet;
	// the boundary still maps it so enforcement can be added without a new
	// contract.
	ErrNameExists = errors.New("name already exists")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
