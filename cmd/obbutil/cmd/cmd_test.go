package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeb/obbutil/pkg/config"
	"github.com/andeb/obbutil/pkg/di"
	"github.com/andeb/obbutil/pkg/journal"
	"github.com/andeb/obbutil/pkg/obbfile"
)

type testEnv struct {
	t          *testing.T
	dir        string
	configPath string
	cfg        *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Journal.Dir = filepath.Join(dir, "journal")
	cfg.Metrics.Textfile = filepath.Join(dir, "obbutil.prom")

	env := &testEnv{t: t, dir: dir, configPath: filepath.Join(dir, "config.yaml"), cfg: cfg}
	env.saveConfig()

	SetContainer(di.NewContainer())
	t.Cleanup(func() { SetContainer(nil) })
	return env
}

func (e *testEnv) saveConfig() {
	e.t.Helper()
	require.NoError(e.t, config.SaveConfig(e.cfg, e.configPath))
}

func (e *testEnv) file(name string, data []byte) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, data, 0600))
	return path
}

func (e *testEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config=" + e.configPath}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestAddInfoRemove(t *testing.T) {
	env := newTestEnv(t)
	payload := []byte("expansion payload")
	path := env.file("main.42.com.example.game.obb", payload)

	_, _, err := env.run("add", "-n", "com.example.game", "-v", "42", "-o", path)
	require.NoError(t, err)

	stdout, _, err := env.run("info", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "OBB info for "+path+":")
	assert.Contains(t, stdout, "Package name: com.example.game")
	assert.Contains(t, stdout, "     Version: 42")
	assert.Contains(t, stdout, "       Flags: 0x1")
	assert.Contains(t, stdout, "     Overlay: true")
	assert.Contains(t, stdout, "      Salted: false")
	assert.Contains(t, stdout, "        Salt: 0000000000000000")

	_, stderr, err := env.run("remove", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "OBB info removed")
	assert.Equal(t, payload, readFile(t, path))
}

func TestAdd_WithSalt(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("main.1.com.example.obb", []byte("payload"))

	_, _, err := env.run("add", "--name", "com.example", "--version", "1", "--salt", "00FF3256F9890092", path)
	require.NoError(t, err)

	info, err := obbfile.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "00ff3256f9890092", info.Salt().String())
	assert.False(t, info.IsOverlay())
	assert.False(t, info.IsSalted())
}

func TestAdd_RejectsBadInput(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing name and version",
			args:    []string{"add"},
			wantErr: "required flag",
		},
		{
			name:    "non-numeric version",
			args:    []string{"add", "-n", "com.example", "-v", "abc"},
			wantErr: "invalid package version: abc",
		},
		{
			name:    "version out of range",
			args:    []string{"add", "-n", "com.example", "-v", "2147483648"},
			wantErr: "invalid package version",
		},
		{
			name:    "short salt",
			args:    []string{"add", "-n", "com.example", "-v", "1", "-s", "00FF"},
			wantErr: "invalid salt",
		},
		{
			name:    "non-hex salt",
			args:    []string{"add", "-n", "com.example", "-v", "1", "-s", "00FF3256F98900XZ"},
			wantErr: "invalid salt",
		},
		{
			name:    "empty salt",
			args:    []string{"add", "-n", "com.example", "-v", "1", "-s", ""},
			wantErr: "invalid salt",
		},
		{
			name:    "empty name",
			args:    []string{"add", "-n", "", "-v", "1"},
			wantErr: "package name must not be empty",
		},
		{
			name:    "name not valid utf-8",
			args:    []string{"add", "-n", "\xff\xfe", "-v", "1"},
			wantErr: "not valid UTF-8",
		},
		{
			name:    "name too long to be read back",
			args:    []string{"add", "-n", strings.Repeat("n", 32745), "-v", "1"},
			wantErr: "exceeds",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			path := env.file("target.obb", []byte("payload"))

			_, _, err := env.run(append(tc.args, path)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Equal(t, []byte("payload"), readFile(t, path))
		})
	}
}

func TestAdd_ArgumentCount(t *testing.T) {
	env := newTestEnv(t)
	a := env.file("a.obb", []byte("a"))
	b := env.file("b.obb", []byte("b"))

	_, _, err := env.run("add", "-n", "com.example", "-v", "1")
	assert.Error(t, err)

	_, _, err = env.run("add", "-n", "com.example", "-v", "1", a, b)
	assert.Error(t, err)

	assert.Equal(t, []byte("a"), readFile(t, a))
	assert.Equal(t, []byte("b"), readFile(t, b))
}

func TestAdd_AlreadyPresent(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("main.1.com.example.obb", []byte("payload"))

	_, _, err := env.run("add", "-n", "com.example", "-v", "1", path)
	require.NoError(t, err)
	before := readFile(t, path)

	_, _, err = env.run("add", "-n", "com.example.other", "-v", "2", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has OBB info")
	assert.Equal(t, before, readFile(t, path))
}

func TestRemove_NoFooter(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("plain.bin", []byte("no footer in this file"))

	_, _, err := env.run("remove", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not contain OBB info")
	assert.Equal(t, []byte("no footer in this file"), readFile(t, path))
}

func TestInfo_Errors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, _, err := env.run("info", filepath.Join(env.dir, "missing.obb"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot open")
	})

	t.Run("too small", func(t *testing.T) {
		path := env.file("small.obb", []byte{1, 2, 3})
		_, _, err := env.run("info", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too small")
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, _, err := env.run("info", "a", "b")
		assert.Error(t, err)
	})
}

func TestPrefixCommands(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("main.3.com.example.obb", []byte("payload"))

	_, _, err := env.run("a", "-n", "com.example", "-v", "3", path)
	require.NoError(t, err)

	stdout, _, err := env.run("inf", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Package name: com.example")

	_, _, err = env.run("r", path)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), readFile(t, path))

	_, _, err = env.run("frobnicate", path)
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("main.5.com.example.obb", []byte("payload"))

	stdout, _, err := env.run("history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No entries found")

	_, _, err = env.run("add", "-n", "com.example", "-v", "5", path)
	require.NoError(t, err)
	_, _, err = env.run("remove", path)
	require.NoError(t, err)

	stdout, _, err = env.run("history")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "PACKAGE")
	assert.Contains(t, lines[1], "remove")
	assert.Contains(t, lines[2], "add")
	assert.Contains(t, lines[2], "com.example")

	stdout, _, err = env.run("history", "--limit", "1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 2)
}

func TestHistory_JournalDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Journal.Enabled = false
	env.saveConfig()

	path := env.file("main.1.com.example.obb", []byte("payload"))
	_, _, err := env.run("add", "-n", "com.example", "-v", "1", path)
	require.NoError(t, err)

	_, _, err = env.run("history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal is disabled")

	_, statErr := os.Stat(env.cfg.Journal.Dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestJournalFailureDoesNotFailCommand(t *testing.T) {
	env := newTestEnv(t)
	c := di.NewContainer()
	c.SetJournalFactory(func(string, logrus.FieldLogger) (*journal.Journal, error) {
		return nil, errors.New("journal unavailable")
	})
	SetContainer(c)

	path := env.file("main.1.com.example.obb", []byte("payload"))
	_, stderr, err := env.run("add", "-n", "com.example", "-v", "1", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "failed to open journal")

	_, err = obbfile.Read(path)
	assert.NoError(t, err)
}

func TestMetricsTextfile(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("main.1.com.example.obb", []byte("payload"))

	_, _, err := env.run("add", "-n", "com.example", "-v", "1", path)
	require.NoError(t, err)

	data := string(readFile(t, env.cfg.Metrics.Textfile))
	assert.Contains(t, data, `obbutil_operations_total{command="add",status="success"} 1`)
	assert.Contains(t, data, "obbutil_footer_bytes 43")

	_, _, err = env.run("info", path)
	require.NoError(t, err)

	data = string(readFile(t, env.cfg.Metrics.Textfile))
	assert.Contains(t, data, `obbutil_operations_total{command="info",status="success"} 1`)
	assert.Contains(t, data, "obbutil_footer_bytes 0")

	_, _, err = env.run("info", env.file("plain.bin", []byte("plain payload")))
	require.Error(t, err)

	data = string(readFile(t, env.cfg.Metrics.Textfile))
	assert.Contains(t, data, `obbutil_operations_total{command="info",status="absent"} 1`)
}

func TestVerboseAndJSONLogging(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("main.1.com.example.obb", []byte("payload"))

	_, stderr, err := env.run("--verbose", "--json", "add", "-n", "com.example", "-v", "1", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"OBB info added"`)
	assert.Contains(t, stderr, `"package":"com.example"`)
}

func TestInvalidConfigFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("logging:\n  level: loud\n"), 0600))

	_, _, err := env.run("info", env.file("x.obb", []byte("payload")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestMissingContainer(t *testing.T) {
	env := newTestEnv(t)
	SetContainer(nil)

	_, _, err := env.run("info", env.file("x.obb", []byte("payload")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency container not initialized")
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)
	configPath := filepath.Join(env.dir, "fresh", "config.yaml")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--config=" + configPath})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Configuration written to")
	assert.True(t, config.ConfigExists(configPath))

	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--config=" + configPath})
	assert.Error(t, root.Execute())

	// A broken file can still be replaced.
	require.NoError(t, os.WriteFile(configPath, []byte("logging: ["), 0600))
	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--force", "--config=" + configPath})
	require.NoError(t, root.Execute())

	loaded, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)
}
