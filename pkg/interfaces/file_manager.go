package interfaces

// FileManager defines the interface for file and directory management
type FileManager interface {
	// EnsureBaseDir ensures the base directory exists
	EnsureBaseDir() error

	// GetBasePath returns the base path for file operations
	GetBasePath() string

	// GetPath returns a path under the base directory
	GetPath(relativePath string) string

	// Cleanup performs cleanup operations
	Cleanup() error
}

// TempFileManager manages temporary files scoped to one extraction call
type TempFileManager interface {
	FileManager

	// CreateTempDir creates a temporary directory
	CreateTempDir(prefix string) (string, error)

	// CreateTempFile creates a temporary file
	CreateTempFile(prefix, suffix string) (string, error)

	// RegisterCleanupFunc registers a function run by Cleanup before any
	// file is removed
	RegisterCleanupFunc(fn func() error)
}
