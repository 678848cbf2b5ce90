package status

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid JSON untouched",
			input: `{"status": "RUNNING"}`,
			want:  `{"status": "RUNNING"}`,
		},
		{
			name:  "trailing comma in object",
			input: `{"status": "SUCCEEDED",}`,
			want:  `{"status": "SUCCEEDED"}`,
		},
		{
			name:  "trailing comma in array",
			input: `{"items": [1, 2,]}`,
			want:  `{"items": [1, 2]}`,
		},
		{
			name:  "empty value slot",
			input: `{"output": ,"status": "RUNNING"}`,
			want:  `{"output": null,"status": "RUNNING"}`,
		},
		{
			name:  "duplicate commas",
			input: `{"a": 1,, "b": 2}`,
			want:  `{"a": 1, "b": 2}`,
		},
		{
			name:  "empty slot before closing brace",
			input: `{"a": ,}`,
			want:  `{"a": null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairJSON([]byte(tt.input))
			assert.Equal(t, tt.want, string(got))

			var parsed map[string]interface{}
			require.NoError(t, json.Unmarshal(got, &parsed), "repaired output should be valid JSON")
		})
	}
}
