package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
)

// SimpleTempManager manages temporary files that are cleaned up after processing
// Directory structure: {temp_root}/scan-to-text-{uuid}/
type SimpleTempManager struct {
	baseDir     string
	pathUtils   *PathUtils
	baseCreated bool
	tempFiles   []string
	tempDirs    []string
	mu          sync.Mutex
	logger      *logger.Logger
	cleanupFns  []func() error
}

// Ensure SimpleTempManager implements TempFileManager interface
var _ interfaces.TempFileManager = (*SimpleTempManager)(nil)

// NewSimpleTempManager creates a temp manager scoped to one extraction run.
// An empty tempRoot means the system temp directory.
func NewSimpleTempManager(tempRoot string, log *logger.Logger) *SimpleTempManager {
	if log == nil {
		log = logger.Nop()
	}
	pu := NewPathUtilsWithTempRoot(tempRoot)
	baseDir := filepath.Join(pu.GetTempDir(), constants.GetPlatformConfig().TempDirPrefix+uuid.NewString())

	return &SimpleTempManager{
		baseDir:   NormalizePath(baseDir),
		pathUtils: NewPathUtilsWithTempRoot(baseDir),
		logger:    log,
	}
}

// EnsureBaseDir ensures the base directory exists
func (tm *SimpleTempManager) EnsureBaseDir() error {
	if err := EnsureDir(tm.baseDir); err != nil {
		return err
	}
	tm.baseCreated = true
	return nil
}

// GetBasePath returns the base path for file operations
func (tm *SimpleTempManager) GetBasePath() string {
	return tm.baseDir
}

// GetPath returns a path under the base directory
func (tm *SimpleTempManager) GetPath(relativePath string) string {
	return NormalizePath(filepath.Join(tm.baseDir, relativePath))
}

// CreateTempDir creates a temporary directory
func (tm *SimpleTempManager) CreateTempDir(prefix string) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if err := tm.EnsureBaseDir(); err != nil {
		return "", fmt.Errorf("failed to ensure base directory: %w", err)
	}

	sanitizedPrefix := SanitizeFileName(prefix)
	if sanitizedPrefix == "" {
		sanitizedPrefix = "temp"
	}

	tempDir, err := tm.pathUtils.CreateTempDir(sanitizedPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	tm.tempDirs = append(tm.tempDirs, tempDir)
	tm.logger.Debug("Created temp directory: %s", tempDir)
	return tempDir, nil
}

// CreateTempFile creates a temporary file
func (tm *SimpleTempManager) CreateTempFile(prefix, suffix string) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if err := tm.EnsureBaseDir(); err != nil {
		return "", fmt.Errorf("failed to ensure base directory: %w", err)
	}

	sanitizedPrefix := SanitizeFileName(prefix)
	if sanitizedPrefix == "" {
		sanitizedPrefix = "temp"
	}

	tempFile, err := tm.pathUtils.CreateTempFile(tm.baseDir, sanitizedPrefix, suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	tm.tempFiles = append(tm.tempFiles, tempFile)
	tm.logger.Debug("Created temp file: %s", tempFile)
	return tempFile, nil
}

// RegisterCleanupFunc registers a cleanup function
func (tm *SimpleTempManager) RegisterCleanupFunc(fn func() error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.cleanupFns = append(tm.cleanupFns, fn)
}

// Cleanup cleans up temporary resources
func (tm *SimpleTempManager) Cleanup() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	var errs []error

	// Run custom cleanup functions first
	for _, fn := range tm.cleanupFns {
		if err := fn(); err != nil {
			errs = append(errs, err)
			tm.logger.Warn("Cleanup function failed: %v", err)
		}
	}

	for _, file := range tm.tempFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove temp file %s: %w", file, err))
			tm.logger.Warn("Failed to remove temporary file: %s, error: %v", file, err)
		} else {
			tm.logger.Debug("Removed temporary file: %s", file)
		}
	}

	for _, dir := range tm.tempDirs {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove temp dir %s: %w", dir, err))
			tm.logger.Warn("Failed to remove temporary directory: %s, error: %v", dir, err)
		} else {
			tm.logger.Debug("Removed temporary directory: %s", dir)
		}
	}

	if tm.baseCreated {
		if err := os.RemoveAll(tm.baseDir); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove base dir %s: %w", tm.baseDir, err))
		}
		tm.baseCreated = false
	}

	tm.tempFiles = tm.tempFiles[:0]
	tm.tempDirs = tm.tempDirs[:0]
	tm.cleanupFns = tm.cleanupFns[:0]

	if len(errs) > 0 {
		return fmt.Errorf("cleanup failed with %d errors: %v", len(errs), errs)
	}

	return nil
}
