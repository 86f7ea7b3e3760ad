package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	s, err := StatusString("inactive")
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, s)
	assert.Equal(t, "Inactive", s.String())

	_, err = StatusString("Deleted")
	assert.Error(t, err)
}

func TestStatusAllowedFor(t *testing.T) {
	assert.True(t, StatusSuspended.AllowedFor(TenantStatuses))
	assert.False(t, StatusSuspended.AllowedFor(BranchStatuses))
	assert.True(t, StatusActive.AllowedFor(BranchStatuses))
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(Branch{Status: StatusInactive})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"Inactive"`)

	var b Branch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Active"}`), &b))
	assert.Equal(t, StatusActive, b.Status)
}

func TestStatusScanValue(t *testing.T) {
	var s Status
	require.NoError(t, s.Scan([]byte("Suspended")))
	assert.Equal(t, StatusSuspended, s)

	v, err := StatusInactive.Value()
	require.NoError(t, err)
	assert.Equal(t, "Inactive", v)
}
