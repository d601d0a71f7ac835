package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmreport/internal/errors"
	"dmreport/internal/shared/testutil"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "export.xlsx")
	require.NoError(t, os.WriteFile(xlsx, []byte("stub"), 0644))

	wrongExt := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(wrongExt, []byte("stub"), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "valid xlsx file", path: xlsx},
		{name: "missing file", path: filepath.Join(dir, "nope.xlsx"), wantErr: "does not exist"},
		{name: "directory instead of file", path: dir, wantErr: "is a directory"},
		{name: "wrong extension", path: wrongExt, wantErr: "not an .xlsx export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			err := NewFileValidator(logger).ValidateInputFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateInputFile_UppercaseExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "EXPORT.XLSX")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0644))

	logger, _ := testutil.NewTestLogger(t)
	assert.NoError(t, NewFileValidator(logger).ValidateInputFile(path))
}

func TestValidateOutputPath(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	validator := NewFileValidator(logger)

	t.Run("creates missing directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "report.xlsx")
		require.NoError(t, validator.ValidateOutputPath(path))

		info, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		// The writability probe must not linger
		_, err = os.Stat(filepath.Join(filepath.Dir(path), ".write_test"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects existing directory as output path", func(t *testing.T) {
		dir := t.TempDir()
		err := validator.ValidateOutputPath(dir)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("overwriting an existing file is allowed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))
		assert.NoError(t, validator.ValidateOutputPath(path))
	})
}
