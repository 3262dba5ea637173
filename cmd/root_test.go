package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prism/internal/report"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"check", "batch", "serve", "reports", "review"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "prism", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCheckCommand_Flags(t *testing.T) {
	for _, name := range []string{"format", "out", "save"} {
		require.NotNil(t, checkCmd.Flags().Lookup(name), "check should have --%s", name)
	}
	assert.Error(t, checkCmd.Args(checkCmd, nil))
	assert.NoError(t, checkCmd.Args(checkCmd, []string{"paper.pdf"}))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestBatchCommand_Flags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "json", flag.DefValue)
	require.NotNil(t, batchCmd.Flags().Lookup("out"))
}

func TestReportsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range reportsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["show"])

	flag := reportsListCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "20", flag.DefValue)
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		flag, path string
		want       report.Format
		wantErr    bool
	}{
		{"", "", report.FormatJSON, false},
		{"", "out/report.md", report.FormatMarkdown, false},
		{"yaml", "out/report.md", report.FormatYAML, false},
		{"xlsx", "", report.FormatXLSX, false},
		{"pdf", "", "", true},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.flag, tt.path)
		if tt.wantErr {
			assert.Error(t, err, "flag=%q path=%q", tt.flag, tt.path)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "flag=%q path=%q", tt.flag, tt.path)
	}
}
