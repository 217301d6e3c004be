package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate is returned by Create when the (professional, job offer)
	// uniqueness constraint rejects the insert at commit time.
	ErrDuplicate = errors.New("duplicate record")
)
