package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileFormats(t *testing.T) {
	assert.Equal(t, FileFormats{"csv", "xlsx"}, ParseFileFormats(" csv , xlsx ,"))
	assert.Equal(t, FileFormats{}, ParseFileFormats(""))
}

func TestFileFormats_UnmarshalJSON(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"supported_file_formats":[" csv","pdf "]}`), &p))
	assert.Equal(t, FileFormats{"csv", "pdf"}, p.SupportedFileFormats)

	require.NoError(t, json.Unmarshal([]byte(`{"supported_file_formats":"csv, txt"}`), &p))
	assert.Equal(t, FileFormats{"csv", "txt"}, p.SupportedFileFormats)

	assert.Error(t, json.Unmarshal([]byte(`{"supported_file_formats":12}`), &p))
}

func TestFileFormats_ValueScan(t *testing.T) {
	v, err := FileFormats{"csv", "pdf"}.Value()
	require.NoError(t, err)
	assert.Equal(t, "csv,pdf", v)

	v, err = FileFormats{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var f FileFormats
	require.NoError(t, f.Scan("a, b"))
	assert.Equal(t, FileFormats{"a", "b"}, f)
	require.NoError(t, f.Scan(nil))
	assert.Empty(t, f)
}

func TestFileFormats_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Product{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"supported_file_formats":[]`)
}

func TestTenantKeyMatches(t *testing.T) {
	tenant := &Tenant{TenantID: 1, OrganizationCode: "ORG", SubDomain: "org"}
	assert.True(t, TenantKey{1, "ORG", "org"}.Matches(tenant))
	assert.False(t, TenantKey{1, "ORG", "other"}.Matches(tenant))
	assert.False(t, TenantKey{1, "ORG", "org"}.Matches(nil))
}
