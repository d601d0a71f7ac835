package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dmreport/internal/errors"
)

// FileValidator runs the pre-flight checks on the three invocation
// paths before any parsing work starts.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputFile checks that an input export exists, is a regular
// file and carries an .xlsx extension.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist", slog.String("file", path))
		return errors.NewValidationError(fmt.Sprintf("input file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewValidationError(fmt.Sprintf("failed to stat input file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory", slog.String("path", path))
		return errors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		v.logger.Error("Input file is not an .xlsx export",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewValidationError(fmt.Sprintf("input file %s is not an .xlsx export", path), nil)
	}

	v.logger.Info("Input file validated",
		slog.String("file", path),
		slog.Int64("size_bytes", info.Size()))
	return nil
}

// ValidateOutputPath ensures the output directory exists (creating it
// if needed) and is writable, so export failures surface before the
// pipeline does any work.
func (v *FileValidator) ValidateOutputPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewValidationError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify writability with a throwaway file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewValidationError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return errors.NewValidationError(fmt.Sprintf("output path %s is a directory", path), nil)
	}

	v.logger.Info("Output path validated", slog.String("path", path))
	return nil
}
