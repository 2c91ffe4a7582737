package redcap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildForm(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   map[string]string
	}{
		{
			name:   "nil params",
			params: nil,
			want:   map[string]string{},
		},
		{
			name:   "caller fields kept",
			params: map[string]string{"type": "flat", "rawOrLabel": "raw"},
			want:   map[string]string{"type": "flat", "rawOrLabel": "raw"},
		},
		{
			name:   "reserved fields dropped",
			params: map[string]string{"token": "attacker", "format": "csv", "overwriteBehavior": "normal"},
			want:   map[string]string{"overwriteBehavior": "normal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := BuildForm("record", "tok", tt.params)

			require.Len(t, form, len(tt.want)+4)
			for k, v := range tt.want {
				require.Equal(t, []string{v}, form[k], k)
			}
			require.Equal(t, []string{"record"}, form[FieldContent])
			require.Equal(t, []string{"tok"}, form[FieldToken])
			require.Equal(t, []string{"json"}, form[FieldFormat])
			require.Equal(t, []string{"json"}, form[FieldReturnFormat])
		})
	}
}

func TestBuildForm_DoesNotMutateParams(t *testing.T) {
	params := map[string]string{"content": "user"}
	BuildForm("metadata", "tok", params)
	require.Equal(t, map[string]string{"content": "user"}, params)
}
