package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	before := map[string]string{"status": "approved"}
	after := map[string]string{"status": "reverted"}

	e, err := NewEntry("admin-1", ActionRequestRevoked, EntityRequest, "req-1", before, after)

	require.NoError(t, err)
	assert.Equal(t, "admin-1", e.ActorID)
	assert.Equal(t, ActionRequestRevoked, e.Action)
	assert.JSONEq(t, `{"status":"approved"}`, string(e.Before))
	assert.JSONEq(t, `{"status":"reverted"}`, string(e.After))
}

func TestNewEntry_NilSnapshots(t *testing.T) {
	e, err := NewEntry(SystemActor, ActionAbsenceMarked, EntityAttendance, "att-1", nil, map[string]bool{"absent": true})

	require.NoError(t, err)
	assert.Nil(t, e.Before)
	assert.NotNil(t, e.After)
}

func TestNewEntry_UnmarshalableSnapshot(t *testing.T) {
	_, err := NewEntry("a", ActionRequestApproved, EntityRequest, "r", make(chan int), nil)
	assert.Error(t, err)
}
