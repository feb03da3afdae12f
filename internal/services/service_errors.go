// filepath: internal/services/service_errors.go
package services

import (
	"errors"

	"streamstore/internal/pipeline"
)

// Standard errors returned by the service layer.
var (
	ErrNotFound    = errors.New("not found")
	ErrBusy        = errors.New("upload slot unavailable")
	ErrStreamFault = pipeline.ErrStreamFault
)
