package contact

import "errors"

var (
	ErrStorageUnavailable = errors.New("contact messages are temporarily unavailable")
)

const (
	msgSent        = "Your message has been sent successfully!"
	msgStorageFail = "Database error. Failed to send message."
)
