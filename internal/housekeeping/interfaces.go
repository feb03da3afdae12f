// filepath: internal/housekeeping/interfaces.go
package housekeeping

import (
	"streamstore/internal/storage"
)

// StorageTX defines the storage methods required by the housekeeping service.
type StorageTX interface {
	ListFiles() ([]storage.FileInfo, error)
	RemoveFile(path string) error
}

// Guard reports the files that are in use and must survive a sweep.
type Guard interface {
	ProtectedPaths() []string
}
