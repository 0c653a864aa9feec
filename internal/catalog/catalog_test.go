package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "protokollo/pkg/domain-errors"
)

func TestLoad_Default(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cat.Offices(), 6)
	assert.True(t, cat.Has("1ο ΓΡΑΦΕΙΟ"))
	assert.True(t, cat.Has("ΥΠΑΣΠΙΣΤΗΡΙΟ"))
	assert.False(t, cat.Has("5ο ΓΡΑΦΕΙΟ"))
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offices.yaml")
	content := `offices:
  - code: OPS
    label: Operations
  - code: ADMIN
    label: Administration
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cat.Offices(), 2)
	assert.True(t, cat.Has("OPS"))
	assert.False(t, cat.Has("1ο ΓΡΑΦΕΙΟ"), "a file catalog replaces the default list")

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("offices: {not a list"), 0o600))
		_, err := Load(bad)
		assert.Error(t, err)
	})
}

func TestNew_Validation(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := New([]Office{{Code: "", Label: "x"}})
		assert.Error(t, err)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := New([]Office{{Code: "OPS", Label: "a"}, {Code: "OPS", Label: "b"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate office code")
	})
}

func TestValidateCodes(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	assert.NoError(t, cat.ValidateCodes([]string{"1ο ΓΡΑΦΕΙΟ", "ΔΙΟΙΚΗΤΗΣ"}))

	err = cat.ValidateCodes([]string{"1ο ΓΡΑΦΕΙΟ", "ΑΓΝΩΣΤΟ"})
	require.Error(t, err)
	var de *dErrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, dErrors.CodeValidation, de.Code)
	assert.Equal(t, "offices", de.Field)
}

func TestFieldLabels(t *testing.T) {
	labels := FieldLabels()
	for _, field := range []string{"issuer", "referenceNumber", "subject", "recipient", "offices", "entryDate"} {
		label, ok := labels[field]
		require.True(t, ok, field)
		assert.NotEmpty(t, label.El)
		assert.NotEmpty(t, label.En)
	}
}
