package tickets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDString(t *testing.T) {
	assert.Equal(t, "TICKET-0001", ID(1).String())
	assert.Equal(t, "TICKET-0042", ID(42).String())
	assert.Equal(t, "TICKET-12345", ID(12345).String())
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{"TICKET-0042", 42, false},
		{"ticket-42", 42, false},
		{"  TICKET-7  ", 7, false},
		{"42", 42, false},
		{"TICKET-", 0, true},
		{"TICKET-0", 0, true},
		{"-5", 0, true},
		{"garbage", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("in progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got)

	got, err = ParseStatus("CLOSED")
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got)

	_, err = ParseStatus("Resolved")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	// The message names the accepted set for the user.
	assert.Contains(t, err.Error(), "Open, In Progress, Closed")
}

func TestParsePriority(t *testing.T) {
	got, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, got)

	got, err = ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, got)

	_, err = ParsePriority("Urgent")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestErrorClassification(t *testing.T) {
	perm := &PermissionError{Reason: "nope"}
	val := &ValidationError{Reason: "bad"}

	assert.True(t, IsPermission(perm))
	assert.False(t, IsPermission(val))
	assert.True(t, IsValidation(val))
	assert.False(t, IsValidation(errors.New("other")))

	assert.Equal(t, "nope", perm.Error())
	assert.Equal(t, "bad", val.Error())
}
