package checklist_test

import (
	"bytes"
	"github.com/gizahealth/inspector/cmd/cli/checklist"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		contains string
		wantErr  bool
	}{
		{name: "english", args: nil, contains: "a1 ", wantErr: false},
		{name: "arabic", args: []string{"--lang", "ar"}, contains: "[admin]", wantErr: false},
		{name: "unsupported language", args: []string{"--lang", "fr"}, contains: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := execute(t, checklist.NewCatalog(), tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
			assert.Contains(t, out, "categories")
		})
	}
}

func TestFacilities(t *testing.T) {
	t.Parallel()

	out, err := execute(t, checklist.NewFacilities())
	require.NoError(t, err)
	assert.Contains(t, out, "f1\t")
	assert.Contains(t, out, "f4\t")

	out, err = execute(t, checklist.NewFacilities(), "no facility is called this")
	require.NoError(t, err)
	assert.Empty(t, out)
}
