package media

const (
	msgNoFile        = "No file provided for upload."
	msgNotConfigured = "Image host configuration is missing."
	msgTooLarge      = "Image is too large."
	msgUnsupported   = "Unsupported image format. Use GIF, JPEG, PNG or WebP."
	msgUploadFailed  = "Image upload failed. Please try again."
	msgHostFailedFmt = "Image upload failed: %s"
)
