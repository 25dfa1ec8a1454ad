package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todolist/internal/config"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate keeps the CLI away from the real ~/.todolist and any TODOLIST_* in
// the environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvConfigDir, t.TempDir())
	for _, k := range []string{config.EnvDir, config.EnvBackend, config.EnvFormat, config.EnvLogLevel, config.EnvLogFile, config.EnvNoticeTTL} {
		t.Setenv(k, "")
	}
}

type taskOut struct {
	Position  int    `json:"position"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	IsEditing bool   `json:"isEditing"`
}

type env[T any] struct {
	Data   T      `json:"data"`
	Notice string `json:"notice"`
}

func mustRun[T any](t *testing.T, args ...string) env[T] {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: todolist %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var out env[T]
	if err := json.Unmarshal(stdout, &out); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	return out
}

func TestTasks_EndToEnd(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := []string{"--dir", dir}
	run := func(args ...string) []string { return append(append([]string{}, base...), args...) }

	milk := mustRun[taskOut](t, run("tasks", "add", "buy", "milk")...)
	if milk.Data.Text != "buy milk" || milk.Data.Position != 1 || !strings.HasPrefix(milk.Data.ID, "task-") {
		t.Fatalf("add returned %+v", milk.Data)
	}
	dog := mustRun[taskOut](t, run("tasks", "add", "walk dog")...)
	if dog.Data.Position != 2 {
		t.Fatalf("second add position = %d", dog.Data.Position)
	}

	blank := mustRun[map[string]bool](t, run("tasks", "add", "   ")...)
	if added, ok := blank.Data["added"]; !ok || added {
		t.Fatalf("blank add returned %v", blank.Data)
	}

	list := mustRun[[]taskOut](t, run("tasks", "list")...)
	if len(list.Data) != 2 {
		t.Fatalf("list = %+v", list.Data)
	}

	toggled := mustRun[taskOut](t, run("tasks", "toggle", "1")...)
	if !toggled.Data.Completed || toggled.Notice != "Task marked as complete!" {
		t.Fatalf("toggle returned %+v notice=%q", toggled.Data, toggled.Notice)
	}

	done := mustRun[[]taskOut](t, run("tasks", "list", "--filter", "completed")...)
	if len(done.Data) != 1 || done.Data[0].ID != milk.Data.ID {
		t.Fatalf("completed = %+v", done.Data)
	}
	pending := mustRun[[]taskOut](t, run("tasks", "list", "--filter", "PENDING")...)
	if len(pending.Data) != 1 || pending.Data[0].Text != "walk dog" || pending.Data[0].Position != 2 {
		t.Fatalf("pending = %+v", pending.Data)
	}

	shown := mustRun[taskOut](t, run("tasks", "show", dog.Data.ID)...)
	if shown.Data.Text != "walk dog" {
		t.Fatalf("show by id = %+v", shown.Data)
	}
	byPrefix := mustRun[taskOut](t, run("tasks", "show", strings.TrimPrefix(dog.Data.ID, "task-"))...)
	if byPrefix.Data.ID != dog.Data.ID {
		t.Fatalf("show by id prefix = %+v", byPrefix.Data)
	}
}

func TestTasks_EditSaveDelete(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	mustRun[taskOut](t, "--dir", dir, "tasks", "add", "one")
	mustRun[taskOut](t, "--dir", dir, "tasks", "add", "two")

	editing := mustRun[taskOut](t, "--dir", dir, "tasks", "edit", "2")
	if !editing.Data.IsEditing {
		t.Fatalf("edit returned %+v", editing.Data)
	}
	saved := mustRun[taskOut](t, "--dir", dir, "tasks", "save", "2", "two", "updated")
	if saved.Data.Text != "two updated" || saved.Data.IsEditing {
		t.Fatalf("save returned %+v", saved.Data)
	}

	removed := mustRun[taskOut](t, "--dir", dir, "tasks", "rm", "1")
	if removed.Data.Text != "one" {
		t.Fatalf("rm returned %+v", removed.Data)
	}
	list := mustRun[[]taskOut](t, "--dir", dir, "tasks", "list")
	if len(list.Data) != 1 || list.Data[0].Text != "two updated" || list.Data[0].Position != 1 {
		t.Fatalf("list after rm = %+v", list.Data)
	}
}

func TestTasks_UnknownRefAndFilter(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	mustRun[taskOut](t, "--dir", dir, "tasks", "add", "one")

	_, stderr, err := runCLI(t, []string{"--dir", dir, "tasks", "toggle", "5"})
	if err == nil || !strings.Contains(string(stderr), "task not found: 5") {
		t.Fatalf("err=%v stderr=%q", err, stderr)
	}
	_, stderr, err = runCLI(t, []string{"--dir", dir, "tasks", "list", "--filter", "someday"})
	if err == nil || !strings.Contains(string(stderr), "unknown filter") {
		t.Fatalf("err=%v stderr=%q", err, stderr)
	}

	list := mustRun[[]taskOut](t, "--dir", dir, "tasks", "list")
	if len(list.Data) != 1 || list.Data[0].Completed {
		t.Fatalf("failed commands changed state: %+v", list.Data)
	}
}

func TestBackends_PersistAcrossInvocations(t *testing.T) {
	isolate(t)

	for _, tc := range []struct {
		backend string
		file    string
	}{
		{backend: "sqlite", file: "todolist.sqlite"},
		{backend: "file", file: "state.json"},
	} {
		t.Run(tc.backend, func(t *testing.T) {
			dir := t.TempDir()
			mustRun[taskOut](t, "--dir", dir, "--backend", tc.backend, "tasks", "add", "persisted")
			if _, err := os.Stat(filepath.Join(dir, tc.file)); err != nil {
				t.Fatalf("expected %s: %v", tc.file, err)
			}
			// Autodetect finds the existing store.
			list := mustRun[[]taskOut](t, "--dir", dir, "tasks", "list")
			if len(list.Data) != 1 || list.Data[0].Text != "persisted" {
				t.Fatalf("list = %+v", list.Data)
			}
		})
	}

	t.Run("memory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "unused")
		mustRun[taskOut](t, "--dir", dir, "--backend", "memory", "tasks", "add", "gone")
		list := mustRun[[]taskOut](t, "--dir", dir, "--backend", "memory", "tasks", "list")
		if len(list.Data) != 0 {
			t.Fatalf("memory backend persisted: %+v", list.Data)
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Fatalf("memory backend touched the filesystem: %v", err)
		}
	})
}

func TestTheme(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if got := mustRun[map[string]string](t, "--dir", dir, "theme", "show"); got.Data["theme"] != "light" {
		t.Fatalf("default theme = %v", got.Data)
	}
	if got := mustRun[map[string]string](t, "--dir", dir, "theme", "toggle"); got.Data["theme"] != "dark" {
		t.Fatalf("toggle = %v", got.Data)
	}
	if got := mustRun[map[string]string](t, "--dir", dir, "theme", "show"); got.Data["theme"] != "dark" {
		t.Fatalf("theme not persisted: %v", got.Data)
	}
	if got := mustRun[map[string]string](t, "--dir", dir, "theme", "set", "LIGHT"); got.Data["theme"] != "light" {
		t.Fatalf("set = %v", got.Data)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "theme", "set", "purple"}); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestDoctor_ReportsInvalidTasks(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	state := `{"tasks":"{not json","theme":"dark"}`
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte(state), 0o644); err != nil {
		t.Fatal(err)
	}

	type report struct {
		Backend string `json:"backend"`
		Theme   string `json:"theme"`
		Issues  []struct {
			Level string `json:"level"`
			Key   string `json:"key"`
		} `json:"issues"`
	}
	got := mustRun[report](t, "--dir", dir, "doctor")
	if got.Data.Backend != "file" || got.Data.Theme != "dark" {
		t.Fatalf("report = %+v", got.Data)
	}
	if len(got.Data.Issues) != 1 || got.Data.Issues[0].Level != "error" || got.Data.Issues[0].Key != "tasks" {
		t.Fatalf("issues = %+v", got.Data.Issues)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "doctor", "--fail"}); err == nil {
		t.Fatalf("expected doctor --fail to return an error")
	}

	// Invalid data loads as an empty list rather than failing.
	list := mustRun[[]taskOut](t, "--dir", dir, "tasks", "list")
	if len(list.Data) != 0 {
		t.Fatalf("list = %+v", list.Data)
	}
}

func TestDoctor_LegacyTasksWithoutIDs(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	state := `{"tasks":"[{\"text\":\"old\",\"completed\":true,\"isEditing\":false}]"}`
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte(state), 0o644); err != nil {
		t.Fatal(err)
	}

	type report struct {
		Tasks  int `json:"tasks"`
		Issues []struct {
			Level string `json:"level"`
		} `json:"issues"`
	}
	got := mustRun[report](t, "--dir", dir, "doctor")
	if got.Data.Tasks != 1 || len(got.Data.Issues) != 1 || got.Data.Issues[0].Level != "info" {
		t.Fatalf("report = %+v", got.Data)
	}

	list := mustRun[[]taskOut](t, "--dir", dir, "tasks", "list")
	if len(list.Data) != 1 || !strings.HasPrefix(list.Data[0].ID, "task-") || !list.Data[0].Completed {
		t.Fatalf("legacy task not migrated: %+v", list.Data)
	}
}

func TestOutputFormats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	mustRun[taskOut](t, "--dir", dir, "tasks", "add", "buy milk")

	stdout, _, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "tasks", "list"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(stdout), "{:data [{:completed false :id \"task-") {
		t.Fatalf("edn output = %q", stdout)
	}

	stdout, _, err = runCLI(t, []string{"--dir", dir, "--format", "text", "tasks", "toggle", "1"})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "[x]") || !strings.HasSuffix(lines[0], "buy milk") || lines[1] != "Task marked as complete!" {
		t.Fatalf("text output = %q", stdout)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "tasks", "list"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestConfig_LayersAndInit(t *testing.T) {
	isolate(t)
	cfgDir := os.Getenv(config.EnvConfigDir)

	type shown struct {
		Path      string `json:"path"`
		Dir       string `json:"dir"`
		Backend   string `json:"backend"`
		Format    string `json:"format"`
		NoticeTTL string `json:"noticeTTL"`
	}

	got := mustRun[shown](t, "config", "show")
	if got.Data.Path != filepath.Join(cfgDir, "config.toml") || got.Data.Dir != filepath.Join(cfgDir, "data") || got.Data.NoticeTTL != "2s" {
		t.Fatalf("defaults = %+v", got.Data)
	}

	mustRun[map[string]string](t, "config", "init")
	if _, _, err := runCLI(t, []string{"config", "init"}); err == nil {
		t.Fatalf("expected init to refuse overwriting")
	}
	mustRun[map[string]string](t, "config", "init", "--force")

	t.Setenv(config.EnvBackend, "memory")
	got = mustRun[shown](t, "config", "show")
	if got.Data.Backend != "memory" {
		t.Fatalf("env not applied: %+v", got.Data)
	}
	got = mustRun[shown](t, "--backend", "file", "config", "show")
	if got.Data.Backend != "file" {
		t.Fatalf("flag did not override env: %+v", got.Data)
	}

	t.Setenv(config.EnvFormat, "edn")
	stdout, _, err := runCLI(t, []string{"config", "show"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(stdout), "{:data") {
		t.Fatalf("format from env not applied: %q", stdout)
	}
}

func TestConfig_Set(t *testing.T) {
	isolate(t)

	mustRun[map[string]string](t, "config", "set", "notice_ttl", "500ms")
	mustRun[map[string]string](t, "config", "set", "backend", "file")
	// Env values are not written back to the file.
	t.Setenv(config.EnvFormat, "text")
	mustRun[map[string]string](t, "--format", "json", "config", "set", "log_level", "debug")

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NoticeTTL.Duration != 500*time.Millisecond || cfg.Backend != "file" || cfg.LogLevel != "debug" || cfg.Format != "json" {
		t.Fatalf("config file = %+v", cfg)
	}

	for _, args := range [][]string{
		{"config", "set", "colour", "blue"},
		{"config", "set", "notice_ttl", "soon"},
		{"config", "set", "backend", "postgres"},
		{"config", "set", "format", "yaml"},
	} {
		if _, _, err := runCLI(t, append([]string{"--format", "json"}, args...)); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestDocs(t *testing.T) {
	isolate(t)

	topics := mustRun[map[string][]string](t, "docs")
	if got := topics.Data["topics"]; len(got) != 3 || got[0] != "config" {
		t.Fatalf("topics = %v", got)
	}

	stdout, _, err := runCLI(t, []string{"docs", "storage", "--raw"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(stdout), "# Storage") {
		t.Fatalf("raw docs = %q", stdout)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected error for unknown topic")
	}
}
