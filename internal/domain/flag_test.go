package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Flag
		wantErr bool
	}{
		{name: "quoted true", input: `"true"`, want: true},
		{name: "quoted upper", input: `"TRUE"`, want: true},
		{name: "quoted false", input: `"False"`, want: false},
		{name: "bare bool", input: `true`, want: true},
		{name: "null", input: `null`, want: false},
		{name: "empty string", input: `""`, want: false},
		{name: "garbage", input: `"yes"`, wantErr: true},
		{name: "number", input: `1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestAssignee_WireFlags(t *testing.T) {
	a := Assignee{ID: 3, TaskID: 1, UserID: "u-1"}
	a.SetCapabilities(Capabilities{View: true, Edit: true})

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"can_view":"true"`)
	assert.Contains(t, string(data), `"can_comment":"false"`)
	assert.Contains(t, string(data), `"can_edit":"true"`)

	var back Assignee
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"task_id":1,"user_id":"u-1","can_view":"True","can_comment":false,"can_edit":"true"}`), &back))
	assert.Equal(t, Capabilities{View: true, Edit: true}, back.Capabilities())
	assert.Equal(t, "v-e", back.Capabilities().String())
}

func TestAssignedTaskIDs(t *testing.T) {
	got := AssignedTaskIDs([]Assignee{{TaskID: 2}, {TaskID: 5}, {TaskID: 2}})
	assert.Equal(t, []int{2, 5}, got)
}
