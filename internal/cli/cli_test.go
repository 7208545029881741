package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/plantbook/internal/flow"
	"github.com/mesh-intelligence/plantbook/internal/paths"
	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// runCLI executes the root command with args and stdin, returning stdout
// and stderr separately.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PLANTBOOK_EVENTS", "")
	t.Setenv("PLANTBOOK_DATE_LAYOUT", "")

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writePhoto creates an image file to capture from.
func writePhoto(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o644))
	return path
}

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestVersionCmd(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "plantbook v0.1.0")
	assert.Contains(t, out, "module: github.com/mesh-intelligence/plantbook")
}

func TestInitCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	out, _, err := runCLI(t, "", "--config-dir", dir, "init", "--date-layout", "2006-01-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Plantbook configuration")
	assert.Contains(t, string(data), "date_layout:")
	assert.Contains(t, string(data), "2006-01-02")
	assert.Contains(t, string(data), "color: true")

	out, _, err = runCLI(t, "", "--config-dir", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Config already exists")

	after, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, data, after, "init must not overwrite an existing config")
}

func TestInitCmdRejectsBadLayout(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "", "--config-dir", dir, "init", "--date-layout", "garden")
	require.ErrorIs(t, err, types.ErrDateLayoutInvalid)
	assert.Equal(t, exitUserError, exitCode(err))

	_, statErr := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDemoCmd(t *testing.T) {
	out, _, err := runCLI(t, "", "--config-dir", t.TempDir(), "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "Rejected: Plant Name is required. (catalogue size 0)")
	assert.Contains(t, out, "Added Fern")
	assert.Contains(t, out, "Updated Fern Renamed")
	assert.Contains(t, out, "My Plants")
	assert.Regexp(t, `Added on \d{1,2}/\d{1,2}/\d{4}`, out)
}

func TestDemoCmdJSON(t *testing.T) {
	out, errOut, err := runCLI(t, "", "--config-dir", t.TempDir(), "--json", "demo")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Updated Fern Renamed")

	var plants []types.Plant
	require.NoError(t, json.Unmarshal([]byte(out), &plants))
	require.Len(t, plants, 1)
	assert.Equal(t, "Fern Renamed", plants[0].Name)
	assert.Equal(t, "watered", plants[0].Notes)
	assert.Nil(t, plants[0].Photo)
	assert.NotEmpty(t, plants[0].ID)
}

func TestDemoUsesConfiguredDateLayout(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "", "--config-dir", dir, "init", "--date-layout", "2006-01-02")
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "--config-dir", dir, "--json", "demo")
	require.NoError(t, err)

	var plants []types.Plant
	require.NoError(t, json.Unmarshal([]byte(out), &plants))
	require.Len(t, plants, 1)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, plants[0].DateAdded)
}

func TestInvalidConfigIsUserError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("date_layout: \"\"\n"), 0o644))

	_, _, err := runCLI(t, "", "--config-dir", dir, "demo")
	require.ErrorIs(t, err, types.ErrDateLayoutEmpty)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestShellAddFlow(t *testing.T) {
	photo := writePhoto(t, "fern.jpg")

	out, _, err := runCLI(t, script(
		"list",
		"add",
		"photo "+photo+" 640 480",
		"continue",
		"name Fern",
		"notes likes shade",
		"submit",
		"quit",
	), "--config-dir", t.TempDir(), "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Your garden is empty.")
	assert.Contains(t, out, "Photo taken: file://")
	assert.Contains(t, out, "Added Fern (")
	assert.Contains(t, out, "Added on ")
	assert.NotContains(t, out, "error:")
}

func TestShellRejectsBlankName(t *testing.T) {
	photo := writePhoto(t, "fern.jpg")

	out, _, err := runCLI(t, script(
		"add",
		"photo "+photo,
		"continue",
		"name   ",
		"submit",
		"list",
	), "--config-dir", t.TempDir(), "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Error adding plant: Plant Name is required.")
	assert.Contains(t, out, "Your garden is empty.", "a rejected submission must not add a plant")
}

func TestShellEditFlow(t *testing.T) {
	photo := writePhoto(t, "fern.jpg")
	newPhoto := writePhoto(t, "fern-2.jpg")
	events := filepath.Join(t.TempDir(), "events.jsonl")

	out, _, err := runCLI(t, script(
		"add",
		"photo "+photo,
		"continue",
		"name Fern",
		"submit",
		"open 1",
		"change-photo",
		"photo "+newPhoto,
		"continue",
		"name Fern Renamed",
		"notes watered",
		"show",
		"submit",
		"quit",
	), "--config-dir", t.TempDir(), "--events", events, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Updated Fern Renamed (")
	assert.Contains(t, out, "fern-2.jpg")
	assert.NotContains(t, out, "error:")

	var kinds []string
	f, err := os.Open(events)
	require.NoError(t, err)
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var evt types.Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &evt))
		kinds = append(kinds, evt.Kind)
	}
	require.NoError(t, sc.Err())

	assert.Contains(t, kinds, types.EventPlantAdded)
	assert.Contains(t, kinds, types.EventPlantEdited)
	assert.Equal(t, types.EventPlantEdited, kinds[len(kinds)-1])
}

func TestShellEditFromChangePhotoDropsDraftEdits(t *testing.T) {
	photo := writePhoto(t, "fern.jpg")

	out, _, err := runCLI(t, script(
		"add",
		"photo "+photo,
		"continue",
		"name Fern",
		"submit",
		"open 1",
		"name Unsaved",
		"change-photo",
		"photo "+photo,
		"continue",
		"show",
	), "--config-dir", t.TempDir(), "--json", "shell")
	require.NoError(t, err)

	// Returning from the capture screen reseeds the drafts from the record.
	var last draftView
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var view draftView
		require.NoError(t, dec.Decode(&view))
		if view.Screen != "" {
			last = view
		}
	}
	assert.Equal(t, flow.ScreenEdit, last.Screen)
	assert.Equal(t, "Fern", last.Name)
	require.NotNil(t, last.Photo)
}

func TestShellScreenGuards(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "photo on list", line: "photo x.jpg", want: `"photo" is not available on the list screen`},
		{name: "submit on list", line: "submit", want: `"submit" is not available on the list screen`},
		{name: "unknown command", line: "water", want: `unknown command "water"`},
		{name: "open missing plant", line: "open nope", want: "plant not found"},
		{name: "open without argument", line: "open", want: "usage: open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, script(tt.line), "--config-dir", t.TempDir(), "shell")
			require.NoError(t, err, "user mistakes do not end the session")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestShellCaptureErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{name: "continue without photo", lines: []string{"add", "continue"}, want: "no photo captured"},
		{name: "missing file", lines: []string{"add", "photo " + filepath.Join(dir, "absent.jpg")}, want: "photo:"},
		{name: "directory", lines: []string{"add", "photo " + dir}, want: "is not a file"},
		{name: "bad width", lines: []string{"add", "photo " + writePhoto(t, "a.jpg") + " wide 10"}, want: `invalid width "wide"`},
		{name: "wrong arity", lines: []string{"add", "photo a b"}, want: "usage: photo"},
		{name: "retake then continue", lines: []string{"add", "photo " + writePhoto(t, "b.jpg"), "retake", "continue"}, want: "no photo captured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, script(tt.lines...), "--config-dir", t.TempDir(), "shell")
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestShellBackDiscardsDrafts(t *testing.T) {
	photo := writePhoto(t, "fern.jpg")
	out, _, err := runCLI(t, script(
		"add",
		"photo "+photo,
		"continue",
		"name Fern",
		"back",
		"list",
	), "--config-dir", t.TempDir(), "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Your garden is empty.")
}

func TestShellJSONList(t *testing.T) {
	photo := writePhoto(t, "fern.jpg")
	out, _, err := runCLI(t, script(
		"add",
		"photo "+photo,
		"continue",
		"name Fern",
		"submit",
	), "--config-dir", t.TempDir(), "--json", "shell")
	require.NoError(t, err)

	var p types.Plant
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Fern", p.Name)
	require.NotNil(t, p.Photo)
	assert.True(t, strings.HasPrefix(p.Photo.URI, "file://"))
}

func TestShellBadEventsPath(t *testing.T) {
	_, _, err := runCLI(t, "", "--config-dir", t.TempDir(), "--events", filepath.Join(t.TempDir(), "missing", "e.jsonl"), "shell")
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("bad flag")))
	assert.Equal(t, exitSysError, exitCode(systemError("disk: %w", os.ErrPermission)))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("wrapped: %w", systemError("x"))))
	assert.ErrorIs(t, systemError("disk: %w", os.ErrPermission), os.ErrPermission)
}

func TestSessionReload(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	flags.configDir = t.TempDir()
	t.Setenv("PLANTBOOK_EVENTS", "")

	sess, err := openSession(root)
	require.NoError(t, err)
	defer sess.Close()

	assert.False(t, sess.applyReloads())

	sess.queueReload(reload{cfg: types.Config{DateLayout: "2006", Color: false}})
	sess.queueReload(reload{cfg: types.Config{DateLayout: "2006-01-02", Color: false}})
	assert.True(t, sess.applyReloads())
	assert.Equal(t, "2006-01-02", sess.cfg.DateLayout)

	sess.store.SetName("Fern")
	p, err := sess.screens.CreateForm(nil).Submit()
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, p.DateAdded)
}

func TestSessionReloadFailure(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	flags.configDir = t.TempDir()
	t.Setenv("PLANTBOOK_EVENTS", "")

	sess, err := openSession(root)
	require.NoError(t, err)
	defer sess.Close()

	sess.queueReload(reload{file: "config.yaml", err: types.ErrDateLayoutEmpty})
	assert.Empty(t, out.String(), "failures are reported when applied, not when queued")

	assert.False(t, sess.applyReloads())
	assert.Contains(t, out.String(), "config config.yaml not reloaded")
	assert.Contains(t, out.String(), types.ErrDateLayoutEmpty.Error())
	assert.Equal(t, types.DefaultDateLayout, sess.cfg.DateLayout)
}

func TestEventsPathEnvPrecedence(t *testing.T) {
	t.Setenv("PLANTBOOK_DATE_LAYOUT", "")

	tests := []struct {
		name       string
		configured bool
		want       string
	}{
		{name: "config beats PLANTBOOK_EVENTS", configured: true, want: "from-config.jsonl"},
		{name: "PLANTBOOK_EVENTS without config", configured: false, want: "from-env.jsonl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.configured {
				content := fmt.Sprintf("events_path: %q\n", filepath.Join(dir, "from-config.jsonl"))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
			}
			t.Setenv("PLANTBOOK_EVENTS_PATH", filepath.Join(dir, "stray.jsonl"))
			t.Setenv("PLANTBOOK_EVENTS", filepath.Join(dir, "from-env.jsonl"))

			v, err := loadConfig(dir)
			require.NoError(t, err)
			cfg, err := configFromViper(v)
			require.NoError(t, err)

			got, err := paths.ResolveEventsPath("", cfg.EventsPath)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestDateLayoutFromEnv(t *testing.T) {
	t.Setenv("PLANTBOOK_DATE_LAYOUT", "2006-01-02")

	v, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	cfg, err := configFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02", cfg.DateLayout)
	assert.Empty(t, cfg.EventsPath)
}
