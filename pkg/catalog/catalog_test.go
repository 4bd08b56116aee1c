// pkg/catalog/catalog_test.go
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Embedded Catalog Tests
// ==========================

func TestDefault_EmbeddedCatalogIsValid(t *testing.T) {
	cat, err := Default()

	require.NoError(t, err)
	assert.NotEmpty(t, cat.Version)
	assert.NotEmpty(t, cat.Options.Industries)
	assert.NotEmpty(t, cat.Options.Channels)
	assert.NotEmpty(t, cat.Options.Tones)
	assert.NotEmpty(t, cat.Options.Budgets)
	assert.NotEmpty(t, cat.Options.TimeCommitments)
	assert.NotEmpty(t, cat.Options.BusinessGoals)
	assert.NotEmpty(t, cat.Options.Resources)
}

func TestDefault_ContainsQuestionnaireStaples(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.True(t, Contains(cat.Options.Industries, "B2B SaaS"))
	assert.True(t, Contains(cat.Options.Industries, "Other"))
	assert.True(t, Contains(cat.Options.Channels, "LinkedIn"))
	assert.True(t, Contains(cat.Options.Tones, "Professional yet Approachable"))
}

// ==========================
// Override Loading Tests
// ==========================

func TestLoad_ValidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `{
		"version": "2.0",
		"options": {
			"industries": ["Robotics"],
			"channels": ["LinkedIn"],
			"tones": ["Professional & Corporate"],
			"budgets": ["Under $500"],
			"timeCommitments": ["Less than 5 hours/week"],
			"businessGoals": ["Brand Awareness"],
			"resources": ["In-house writer"]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cat, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "2.0", cat.Version)
	assert.Equal(t, []string{"Robotics"}, cat.Options.Industries)
}

func TestLoad_RejectsDocumentMissingRequiredOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.0","options":{}}`), 0o600))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

// ==========================
// Helper Tests
// ==========================

func TestContains_ExactMatchOnly(t *testing.T) {
	opts := []string{"LinkedIn", "Blog"}

	assert.True(t, Contains(opts, "LinkedIn"))
	assert.False(t, Contains(opts, "linkedin"))
	assert.False(t, Contains(opts, ""))
}
