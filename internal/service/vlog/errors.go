package vlog

import "errors"

var (
	ErrStorageUnavailable = errors.New("vlog posts are temporarily unavailable")
)

const (
	msgCreated     = "Vlog post created successfully!"
	msgStorageFail = "Database error. Failed to create vlog post."

	excerptLength = 100
)
