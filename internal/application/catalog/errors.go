package catalog

import "errors"

var (
	ErrNoFile              = errors.New("no file provided")
	ErrInvalidFileType     = errors.New("invalid file type")
	ErrEnqueueImportJob    = errors.New("failed to enqueue import job")
	ErrSKURequired         = errors.New("sku is required")
	ErrWebhookFieldsNeeded = errors.New("url and event_type are required")
)
