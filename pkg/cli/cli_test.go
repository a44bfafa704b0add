package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxdpanic/addon-check/pkg/reporter"
)

const leiaIndex = `<?xml version="1.0" encoding="UTF-8"?>
<addons>
  <addon id="xbmc.python" version="2.26.0"/>
  <addon id="script.module.six" version="1.11.0"/>
  <addon id="plugin.video.old" version="1.0.0">
    <requires><import addon="script.module.six" version="1.11.0"/></requires>
  </addon>
</addons>`

const matrixIndex = `<?xml version="1.0" encoding="UTF-8"?>
<addons>
  <addon id="xbmc.python" version="3.0.0"/>
  <addon id="script.module.six" version="1.15.0"/>
  <addon id="plugin.video.user" version="1.0.0">
    <requires><import addon="script.module.six" version="1.15.0"/></requires>
  </addon>
</addons>`

type fixture struct {
	dir    string
	repo   string
	config string
	good   string
	bad    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		repo:   filepath.Join(dir, "repo"),
		config: filepath.Join(dir, "addon-check.yaml"),
	}

	writeFile(t, filepath.Join(f.repo, "leia", "addons.xml"), leiaIndex)
	writeFile(t, filepath.Join(f.repo, "matrix", "addons.xml"), matrixIndex)
	writeFile(t, f.config, "workers: 2\nlog:\n  level: error\n")

	f.good = filepath.Join(dir, "plugin.video.good")
	writeFile(t, filepath.Join(f.good, "addon.xml"), `<addon id="plugin.video.good" version="1.0.0">
  <requires>
    <import addon="xbmc.python" version="3.0.0"/>
    <import addon="script.module.six" version="1.15.0"/>
  </requires>
  <extension point="xbmc.python.pluginsource" library="main.py"/>
</addon>`)

	f.bad = filepath.Join(dir, "plugin.video.bad")
	writeFile(t, filepath.Join(f.bad, "addon.xml"), `<addon id="plugin.video.bad" version="1.0.0">
  <requires>
    <import addon="xbmc.python" version="3.0.0"/>
    <import addon="script.module.six"/>
  </requires>
</addon>`)

	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCheck(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		args     []string
		wantExit bool
		want     []string
	}{
		{
			name: "passing add-on",
			args: []string{f.good},
			want: []string{"Checking plugin.video.good"},
		},
		{
			name:     "warning fails with fail-on warning",
			args:     []string{f.bad, "--fail-on", "warning"},
			wantExit: true,
			want:     []string{"WARNING: Required dependency script.module.six does not require a minimum version, available: 1.15.0"},
		},
		{
			name: "warning passes by default",
			args: []string{f.bad},
			want: []string{"WARNING: "},
		},
		{
			name: "never fails",
			args: []string{f.bad, "--fail-on", "never"},
		},
		{
			name:     "missing manifest is a problem",
			args:     []string{f.good, filepath.Join(f.dir, "missing")},
			wantExit: true,
			want:     []string{"PROBLEM: Could not load add-on"},
		},
		{
			name: "ignored dependency",
			args: []string{f.bad, "--fail-on", "warning", "--ignore", "script.module.six"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", f.config, "check", "--branch", "matrix", "--repo", f.repo}, tt.args...)
			stdout, _, err := runCommand(t, args...)

			if tt.wantExit {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 1, exitErr.Code)
			} else {
				require.NoError(t, err)
			}
			for _, s := range tt.want {
				assert.Contains(t, stdout, s)
			}
		})
	}
}

func TestCheck_JSONReporterAndMetrics(t *testing.T) {
	f := newFixture(t)
	jsonPath := filepath.Join(f.dir, "report.json")
	metricsPath := filepath.Join(f.dir, "metrics.prom")

	stdout, _, err := runCommand(t, "--config", f.config, "check",
		"--branch", "matrix", "--repo", f.repo,
		"--reporter", "json", "--json-output", jsonPath,
		"--metrics-file", metricsPath,
		f.good, f.bad)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Checking", "console reporter disabled")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id"`)
	assert.Contains(t, string(data), `"name": "plugin.video.bad"`)

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `addon_check_checks_total{branch="matrix"} 2`)
	assert.Contains(t, string(metrics), `addon_check_branch_loads_total{status="success"} 2`)
}

func TestCheck_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "no branch", args: []string{"check", "--repo", f.repo, f.good}, wantErr: errNoBranch},
		{name: "no repo", args: []string{"check", "--branch", "matrix", f.good}, wantErr: errNoRepository},
		{name: "unknown reporter", args: []string{"check", "--branch", "matrix", "--repo", f.repo, "--reporter", "html", f.good}, wantErr: reporter.ErrUnknownReporter},
		{name: "unknown branch", args: []string{"check", "--branch", "nexus", "--repo", f.repo, f.good}, wantMsg: "branch not found"},
		{name: "bad fail-on", args: []string{"check", "--branch", "matrix", "--repo", f.repo, "--fail-on", "sometimes", f.good}, wantMsg: "fail_on"},
		{name: "bad severity", args: []string{"check", "--branch", "matrix", "--repo", f.repo, "--min-severity", "fatal", f.good}, wantMsg: "unknown severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCommand(t, append([]string{"--config", f.config}, tt.args...)...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := runCommand(t, "--config", f.config, "reverse", "script.module.six", "--branch", "matrix", "--repo", f.repo)
	require.NoError(t, err)
	assert.Contains(t, stdout, "INFORMATION: Reverse dependencies: plugin.video.user (1)")
	assert.Contains(t, stdout, "INFORMATION: Reverse dependencies (in lower branches): plugin.video.old (1)")

	stdout, _, err = runCommand(t, "--config", f.config, "reverse", "plugin.video.user", "--branch", "matrix", "--repo", f.repo)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Reverse dependencies: None")

	_, _, err = runCommand(t, "--config", f.config, "reverse", "--branch", "matrix", "--repo", f.repo)
	assert.Error(t, err)
}

func TestBranches(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := runCommand(t, "--config", f.config, "branches")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1. gotham")
	assert.Contains(t, stdout, "7. matrix")

	writeFile(t, filepath.Join(f.repo, "nexus", "addons.xml"), `<addons/>`)
	stdout, _, err = runCommand(t, "--config", f.config, "branches", "--repo", f.repo)
	require.NoError(t, err)
	assert.Contains(t, stdout, "leia       3 add-ons")
	assert.Contains(t, stdout, "matrix     3 add-ons")
	assert.Contains(t, stdout, "nexus      0 add-ons (unknown branch)")
	assert.Less(t, bytes.Index([]byte(stdout), []byte("leia")), bytes.Index([]byte(stdout), []byte("matrix")))
}

func TestExecute_ExitCodes(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, 0, Execute(context.Background(), []string{"--version"}))
	assert.Equal(t, 0, Execute(context.Background(),
		[]string{"--config", f.config, "check", "--branch", "matrix", "--repo", f.repo, "--reporter", "array", f.good}))
	assert.Equal(t, 1, Execute(context.Background(),
		[]string{"--config", f.config, "check", "--branch", "matrix", "--repo", f.repo, "--reporter", "array", "--fail-on", "warning", f.bad}))
	assert.Equal(t, 1, Execute(context.Background(), []string{"--config", filepath.Join(f.dir, "missing.yaml"), "branches"}))
}

func TestExecute_ClosesLogFileOnFailure(t *testing.T) {
	f := newFixture(t)
	logPath := filepath.Join(f.dir, "logs", "addon-check.log")

	app := &App{}
	root := newRootCommand(app)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"--config", f.config, "--log-file", logPath, "--verbose",
		"check", "--branch", "matrix", "--repo", f.repo, "--fail-on", "warning", f.bad})

	assert.Equal(t, 1, execute(context.Background(), app, root))
	assert.Nil(t, app.closer, "log file closed after a failing run")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "addon-check dev")
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "dev", "unknown"
	assert.Equal(t, "dev (built from source)", getVersionString())

	Version, Commit = "v1.2.3", "abc1234"
	assert.Equal(t, "v1.2.3 (commit: abc1234)", getVersionString())
}
