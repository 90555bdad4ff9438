package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/rfdgen/internal/sample"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

// workspace holds sample inputs and candidate output folders for one test.
type workspace struct {
	source     string
	template   string
	configFile string
	configOut  string
	flagOut    string
	envOut     string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	ws := workspace{
		source:     filepath.Join(dir, "allocation.xlsx"),
		template:   filepath.Join(dir, "template.xlsx"),
		configFile: filepath.Join(dir, "rfdgen.yaml"),
		configOut:  filepath.Join(dir, "config-out"),
		flagOut:    filepath.Join(dir, "flag-out"),
		envOut:     filepath.Join(dir, "env-out"),
	}
	require.NoError(t, sample.WriteSource(ws.source, sample.Customers()))
	require.NoError(t, sample.WriteTemplate(ws.template))

	cfg := config.Default()
	cfg.Source.Path = ws.source
	cfg.Template.Path = ws.template
	cfg.Output.Dir = ws.configOut
	cfg.Export.Engine = config.EngineNative
	f, err := os.Create(ws.configFile)
	require.NoError(t, err)
	require.NoError(t, config.WriteYAML(f, cfg))
	require.NoError(t, f.Close())
	return ws
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	configErr = nil
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func filesWithExt(t *testing.T, dir, ext string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ext {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestGenerateCommand(t *testing.T) {
	// wantDir is the folder expected to receive wantN files with wantExt.
	tests := []struct {
		name     string
		args     func(ws workspace) []string
		env      func(ws workspace) map[string]string
		wantErr  string
		wantDir  func(ws workspace) string
		wantExt  string
		wantN    int
		wantText string
	}{
		{
			name: "flags only",
			args: func(ws workspace) []string {
				return []string{"generate", "--source", ws.source, "--template", ws.template,
					"--output", ws.flagOut, "--engine", "native"}
			},
			wantDir:  func(ws workspace) string { return ws.flagOut },
			wantExt:  ".pdf",
			wantN:    3,
			wantText: "Created 3 PDF file(s)",
		},
		{
			name: "config file",
			args: func(ws workspace) []string {
				return []string{"--config", ws.configFile, "generate"}
			},
			wantDir: func(ws workspace) string { return ws.configOut },
			wantExt: ".pdf",
			wantN:   3,
		},
		{
			name: "flag beats config file",
			args: func(ws workspace) []string {
				return []string{"--config", ws.configFile, "generate", "--output", ws.flagOut}
			},
			wantDir: func(ws workspace) string { return ws.flagOut },
			wantExt: ".pdf",
			wantN:   3,
		},
		{
			name: "environment beats config file",
			args: func(ws workspace) []string {
				return []string{"--config", ws.configFile, "generate"}
			},
			env: func(ws workspace) map[string]string {
				return map[string]string{"RFDGEN_OUTPUT_DIR": ws.envOut}
			},
			wantDir: func(ws workspace) string { return ws.envOut },
			wantExt: ".pdf",
			wantN:   3,
		},
		{
			name: "flag beats environment",
			args: func(ws workspace) []string {
				return []string{"--config", ws.configFile, "generate", "--output", ws.flagOut}
			},
			env: func(ws workspace) map[string]string {
				return map[string]string{"RFDGEN_OUTPUT_DIR": ws.envOut}
			},
			wantDir: func(ws workspace) string { return ws.flagOut },
			wantExt: ".pdf",
			wantN:   3,
		},
		{
			name: "explicit row ignores blend filter",
			args: func(ws workspace) []string {
				return []string{"--config", ws.configFile, "generate", "--row", "3"}
			},
			wantDir:  func(ws workspace) string { return ws.configOut },
			wantExt:  ".pdf",
			wantN:    1,
			wantText: "Beta Logistics",
		},
		{
			name: "no pdf keeps workbooks",
			args: func(ws workspace) []string {
				return []string{"--config", ws.configFile, "generate", "--no-pdf"}
			},
			wantDir:  func(ws workspace) string { return ws.configOut },
			wantExt:  ".xlsx",
			wantN:    3,
			wantText: "Created 3 Excel file(s)",
		},
		{
			name: "failed record exits non-zero",
			args: func(ws workspace) []string {
				// Row 1 is the header; its volume text cannot take the kg format.
				return []string{"--config", ws.configFile, "generate", "--row", "1", "--row", "2"}
			},
			wantErr:  "1 customer(s) failed",
			wantDir:  func(ws workspace) string { return ws.configOut },
			wantExt:  ".pdf",
			wantN:    1,
			wantText: "1 error(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(t)
			if tt.env != nil {
				for k, v := range tt.env(ws) {
					t.Setenv(k, v)
				}
			}

			out, err := execute(t, tt.args(ws)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err, out)
			}

			assert.Len(t, filesWithExt(t, tt.wantDir(ws), tt.wantExt), tt.wantN)
			if tt.wantText != "" {
				assert.Contains(t, out, tt.wantText)
			}
			for _, other := range []string{ws.configOut, ws.flagOut, ws.envOut} {
				if other == tt.wantDir(ws) {
					continue
				}
				assert.Empty(t, filesWithExt(t, other, tt.wantExt), "unexpected output in %s", other)
			}
		})
	}
}

func TestGenerateMissingSource(t *testing.T) {
	ws := newWorkspace(t)

	_, err := execute(t, "generate", "--source", filepath.Join(filepath.Dir(ws.source), "missing.xlsx"),
		"--template", ws.template, "--output", ws.flagOut, "--engine", "native")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestScanCommand(t *testing.T) {
	ws := newWorkspace(t)

	out, err := execute(t, "--config", ws.configFile, "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "4 qualifying row(s)")
	assert.Contains(t, out, "C-001")
	assert.False(t, strings.Contains(out, "C-002"), "row below the blend threshold is listed")

	_, err = execute(t, "scan", "--source", ws.source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template.path is required")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rfdgen dev\n", out)
}
