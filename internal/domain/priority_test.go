package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		wantErr error
		input   string
		want    Priority
	}{
		{input: "High", want: PriorityHigh},
		{input: "medium", want: PriorityMedium},
		{input: " NORMAL ", want: PriorityNormal},
		{input: "Low", want: PriorityNormal},
		{input: "low", want: PriorityNormal},
		{input: "Urgent", wantErr: ErrInvalidPriority},
		{input: "", wantErr: ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriority_Index(t *testing.T) {
	assert.Equal(t, 0, PriorityHigh.Index())
	assert.Equal(t, 1, PriorityMedium.Index())
	assert.Equal(t, 2, PriorityNormal.Index())
	assert.Equal(t, -1, Priority("Urgent").Index())

	for i, p := range Priorities() {
		assert.Equal(t, p, PriorityAt(i))
	}
	assert.Equal(t, PriorityHigh, PriorityAt(-3))
	assert.Equal(t, PriorityNormal, PriorityAt(9))
}

func TestPriority_Display(t *testing.T) {
	assert.Equal(t, "High Priority", PriorityHigh.Display())
	assert.Equal(t, "Normal Priority", PriorityNormal.Display())
	assert.Equal(t, "Urgent", Priority("Urgent").Display())
}

func TestPriority_UnmarshalJSON(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"priority":"low"}`), &task))
	assert.Equal(t, PriorityNormal, task.Priority)

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"priority":"HIGH"}`), &task))
	assert.Equal(t, PriorityHigh, task.Priority)

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"priority":"Someday"}`), &task))
	assert.Equal(t, Priority("Someday"), task.Priority)
	assert.False(t, task.Priority.IsValid())
}

func TestVisibility(t *testing.T) {
	v, err := ParseVisibility("public")
	require.NoError(t, err)
	assert.Equal(t, VisibilityPublic, v)

	_, err = ParseVisibility("team")
	assert.ErrorIs(t, err, ErrInvalidVisibility)

	assert.Equal(t, VisibilityPrivate, VisibilityPublic.Toggle())
	assert.Equal(t, VisibilityPublic, VisibilityPrivate.Toggle())
}
