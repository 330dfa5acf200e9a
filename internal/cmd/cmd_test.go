package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/groblegark/wtstatus/internal/config"
	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/monitoring"
	"github.com/groblegark/wtstatus/internal/status"
	"github.com/groblegark/wtstatus/internal/tasks"
)

// project is a fake checkout with one linked worktree for feature/login.
type project struct {
	root     string
	worktree string
}

func newProject(t *testing.T) project {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	admin := filepath.Join(root, ".git", "worktrees", "feature-login")
	wt := filepath.Join(root, ".trees", "feature-login")
	for _, dir := range []string{admin, wt} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main\n")
	mustWrite(t, filepath.Join(admin, "HEAD"), "ref: refs/heads/feature/login\n")
	mustWrite(t, filepath.Join(wt, ".git"), "gitdir: "+admin+"\n")
	return project{root: root, worktree: wt}
}

func (p project) statusDir() string {
	return constants.StatusDirPath(p.root)
}

func (p project) addTask(t *testing.T, file, content string) {
	t.Helper()
	dir := constants.TasksPath(p.root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(dir, file), content)
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runWT executes the command tree in dir and returns stdout.
func runWT(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	for _, key := range []string{config.EnvStatusDir, config.EnvStaleHours, config.EnvRefreshInterval, config.EnvLogLevel} {
		t.Setenv(key, "")
	}
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), err
}

func readRecord(t *testing.T, p project, task string) *status.AgentStatus {
	t.Helper()
	rec, err := status.ReadRecord(filepath.Join(p.statusDir(), task+constants.ExtRecord))
	if err != nil {
		t.Fatalf("reading %s record: %v", task, err)
	}
	return rec
}

func TestReport_WritesAndReplacesRecord(t *testing.T) {
	p := newProject(t)

	out, err := runWT(t, p.worktree, "report", "Implementing", "login", "--todos", "0/3")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Reported status for login") {
		t.Errorf("output = %q", out)
	}
	rec := readRecord(t, p, "login")
	if rec.CurrentWork != "Implementing login" {
		t.Errorf("CurrentWork = %q", rec.CurrentWork)
	}
	if rec.TodosTotal == nil || *rec.TodosTotal != 3 || *rec.TodosCompleted != 0 {
		t.Errorf("todos = %v/%v, want 0/3", rec.TodosCompleted, rec.TodosTotal)
	}
	if rec.Branch == nil || *rec.Branch != "feature/login" {
		t.Errorf("Branch = %v, want feature/login", rec.Branch)
	}
	if rec.WorktreePath == nil || *rec.WorktreePath != p.worktree {
		t.Errorf("WorktreePath = %v, want %s", rec.WorktreePath, p.worktree)
	}
	if rec.DiffStats != nil {
		t.Errorf("DiffStats = %+v, want nil outside a real repository", *rec.DiffStats)
	}

	if _, err := runWT(t, p.worktree, "report", "Polishing", "--todos", "2/3", "--tests", "passed"); err != nil {
		t.Fatalf("second report: %v", err)
	}
	rec = readRecord(t, p, "login")
	if rec.CurrentWork != "Polishing" || *rec.TodosCompleted != 2 || rec.TestStatus != status.TestPassed {
		t.Errorf("record after second report = %+v", rec)
	}

	entries, err := os.ReadDir(p.statusDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("status dir has %d entries, want 1", len(entries))
	}
}

func TestReport_InvalidInputWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no description", []string{"report"}, status.ErrMissingDescription},
		{"blank description", []string{"report", "   "}, status.ErrMissingDescription},
		{"bad tests", []string{"report", "x", "--tests", "green"}, status.ErrInvalidTestStatus},
		{"todos missing total", []string{"report", "x", "--todos", "3/"}, status.ErrInvalidTodos},
		{"todos garbage", []string{"report", "x", "--todos", "half"}, status.ErrInvalidTodos},
		{"bad task name", []string{"report", "x", "--task", "has space"}, status.ErrInvalidTaskName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject(t)
			_, err := runWT(t, p.worktree, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if _, err := os.Stat(p.statusDir()); !os.IsNotExist(err) {
				t.Errorf("status dir exists after failed report (err=%v)", err)
			}
		})
	}
}

func TestReport_NoTaskOutsideWorktree(t *testing.T) {
	p := newProject(t)
	_, err := runWT(t, p.root, "report", "Reviewing")
	if !errors.Is(err, status.ErrInvalidTaskName) {
		t.Fatalf("error = %v, want ErrInvalidTaskName", err)
	}

	if _, err := runWT(t, p.root, "report", "Reviewing", "--task", "review"); err != nil {
		t.Fatalf("report with --task: %v", err)
	}
	if rec := readRecord(t, p, "review"); rec.WorktreePath != nil {
		t.Errorf("WorktreePath = %q, want nil from the main checkout", *rec.WorktreePath)
	}
}

func TestReport_BlockedThenResolved(t *testing.T) {
	p := newProject(t)

	out, err := runWT(t, p.worktree, "report", "Need schema", "--reason", "waiting on backend")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(blocked)") {
		t.Errorf("output = %q, want blocked marker", out)
	}
	rec := readRecord(t, p, "login")
	if !rec.IsBlocked || rec.BlockedReason == nil || *rec.BlockedReason != "waiting on backend" {
		t.Errorf("blocked record = %+v", rec)
	}

	if _, err := runWT(t, p.worktree, "report", "Unblocked"); err != nil {
		t.Fatal(err)
	}
	rec = readRecord(t, p, "login")
	if rec.IsBlocked || rec.BlockedReason != nil {
		t.Errorf("record after resolve = %+v, want unblocked without reason", rec)
	}
}

func TestReport_JSON(t *testing.T) {
	p := newProject(t)
	out, err := runWT(t, p.worktree, "report", "Working", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	for _, key := range []string{"blocked_reason", "todos_completed", "todos_total", "diff_stats"} {
		v, ok := got[key]
		if !ok || v != nil {
			t.Errorf("%s = %v (present=%v), want explicit null", key, v, ok)
		}
	}
	if got["task_name"] != "login" {
		t.Errorf("task_name = %v", got["task_name"])
	}
}

func TestShow(t *testing.T) {
	p := newProject(t)
	if _, err := runWT(t, p.worktree, "report", "Working", "--todos", "1/4"); err != nil {
		t.Fatal(err)
	}
	if _, err := runWT(t, p.root, "report", "Stuck", "--task", "api", "--blocked"); err != nil {
		t.Fatal(err)
	}

	t.Run("json", func(t *testing.T) {
		out, err := runWT(t, p.root, "show", "--json")
		if err != nil {
			t.Fatal(err)
		}
		var got struct {
			Total   int `json:"total"`
			Active  int `json:"active"`
			Blocked int `json:"blocked"`
			Agents  []struct {
				TaskName string `json:"task_name"`
				Class    string `json:"class"`
			} `json:"agents"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if got.Total != 2 || got.Active != 1 || got.Blocked != 1 {
			t.Errorf("counts = %+v", got)
		}
		if len(got.Agents) != 2 || got.Agents[0].TaskName != "api" || got.Agents[0].Class != "blocked" {
			t.Errorf("agents = %+v, want blocked api first", got.Agents)
		}
	})

	t.Run("table", func(t *testing.T) {
		out, err := runWT(t, p.root, "show", "--no-color")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "Agent Status (2 total)") {
			t.Errorf("missing header:\n%s", out)
		}
		if strings.Index(out, "api") > strings.Index(out, "login") {
			t.Errorf("blocked api should come before login:\n%s", out)
		}
		if !strings.Contains(out, "1/4") {
			t.Errorf("missing todo progress:\n%s", out)
		}
	})

	t.Run("filter", func(t *testing.T) {
		out, err := runWT(t, p.root, "show", "--no-color", "login")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "(1 total)") || strings.Contains(out, "api") {
			t.Errorf("filtered output:\n%s", out)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		out, err := runWT(t, p.root, "show", "nope")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, `No status reported for task "nope"`) {
			t.Errorf("output = %q", out)
		}
	})
}

func TestShow_Empty(t *testing.T) {
	p := newProject(t)
	out, err := runWT(t, p.root, "show", "--no-color")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No agent status records") {
		t.Errorf("output = %q", out)
	}
}

func TestShow_OutsideProject(t *testing.T) {
	_, err := runWT(t, t.TempDir(), "show")
	if err == nil || !strings.Contains(err.Error(), "project root") {
		t.Errorf("error = %v, want project root error", err)
	}
}

func TestMonitor_Once(t *testing.T) {
	p := newProject(t)
	if _, err := runWT(t, p.worktree, "report", "Working"); err != nil {
		t.Fatal(err)
	}
	out, err := runWT(t, p.root, "monitor", "--once", "--no-color")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Agent Status (1 total)") || !strings.Contains(out, "login") {
		t.Errorf("output:\n%s", out)
	}
}

func TestContext_JSON(t *testing.T) {
	p := newProject(t)
	out, err := runWT(t, p.worktree, "context", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"type":          "worker",
		"project_root":  p.root,
		"worktree_path": p.worktree,
		"branch":        "feature/login",
		"task_name":     "login",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestContext_Human(t *testing.T) {
	out, err := runWT(t, t.TempDir(), "context")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "unknown") || !strings.Contains(out, "(none)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestSweep(t *testing.T) {
	p := newProject(t)
	if err := os.MkdirAll(p.statusDir(), 0755); err != nil {
		t.Fatal(err)
	}
	orphan := filepath.Join(p.statusDir(), "orphan.json.tmp")
	fresh := filepath.Join(p.statusDir(), "fresh.json.tmp")
	mustWrite(t, orphan, "{")
	mustWrite(t, fresh, "{")
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(orphan, old, old); err != nil {
		t.Fatal(err)
	}

	out, err := runWT(t, p.root, "sweep", "--max-age", "10m")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Removed 1 temp file(s)") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Error("old temp file was not removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh temp file was removed")
	}
}

func TestCleanupCheck(t *testing.T) {
	p := newProject(t)
	p.addTask(t, "m-login.md", "---\nname: m-login\nbranch: feature/login\nstatus: pending\n---\n# Login\n")

	out, err := runWT(t, p.root, "cleanup-check", "feature/login")
	var silent *SilentExitError
	if !errors.As(err, &silent) || silent.Code != 1 {
		t.Fatalf("error = %v, want silent exit 1", err)
	}
	var got struct {
		SafeToCleanup  bool     `json:"safe_to_cleanup"`
		WorktreeExists bool     `json:"worktree_exists"`
		Blockers       []string `json:"blockers"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.SafeToCleanup || !got.WorktreeExists {
		t.Errorf("report = %+v", got)
	}
	if len(got.Blockers) != 1 || got.Blockers[0] != "1 task(s) not completed" {
		t.Errorf("blockers = %v", got.Blockers)
	}

	p.addTask(t, "m-login.md", "---\nname: m-login\nbranch: feature/login\nstatus: completed\n---\n")
	if _, err := runWT(t, p.root, "cleanup-check", "feature/login"); err != nil {
		t.Errorf("completed branch: error = %v, want nil", err)
	}
}

func TestTasks(t *testing.T) {
	p := newProject(t)

	if _, err := runWT(t, p.root, "tasks"); err == nil {
		t.Error("tasks without a tasks directory should fail")
	}

	p.addTask(t, "m-login.md", "---\nname: m-login\nbranch: feature/login\nstatus: in-progress\n---\n")
	p.addTask(t, "h-docs.md", "---\nname: h-docs\nbranch: feature/docs\nstatus: pending\n---\n")
	p.addTask(t, "TEMPLATE.md", "---\nname: template\n---\n")
	p.addTask(t, "loose.md", "no frontmatter\n")

	out, err := runWT(t, p.root, "tasks", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Branches map[string]struct {
			WorktreeExists bool `json:"worktree_exists"`
			TaskCount      int  `json:"task_count"`
		} `json:"branches"`
		Summary struct {
			TotalBranches      int `json:"total_branches"`
			TotalTasks         int `json:"total_tasks"`
			TasksWithoutBranch int `json:"tasks_without_branch"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Summary.TotalBranches != 2 || got.Summary.TotalTasks != 2 || got.Summary.TasksWithoutBranch != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if !got.Branches["feature/login"].WorktreeExists || got.Branches["feature/docs"].WorktreeExists {
		t.Errorf("branches = %+v", got.Branches)
	}

	out, err = runWT(t, p.root, "tasks")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "feature/docs") || !strings.Contains(out, "Tasks without a branch") {
		t.Errorf("human output:\n%s", out)
	}
}

func TestTask(t *testing.T) {
	p := newProject(t)
	p.addTask(t, "m-login.md", "---\nname: m-login\nbranch: feature/login\nstatus: pending\n---\n# Login\n\nBuild the form.\n")
	file := filepath.Join(constants.TasksPath(p.root), "m-login.md")

	out, err := runWT(t, p.root, "task", file)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := map[string]string{
		"name":          "m-login",
		"folder":        "feature-login",
		"worktree_path": ".trees/feature-login",
		"filename":      "m-login.md",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}

	out, err = runWT(t, p.root, "task", file, "--render")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Build the form.") {
		t.Errorf("rendered output:\n%s", out)
	}

	if _, err := runWT(t, p.root, "task", filepath.Join(p.root, "missing.md")); err == nil {
		t.Error("missing task file should fail")
	}
}

func TestWorktrees_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	git := func(args ...string) {
		t.Helper()
		c := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		c.Dir = root
		if out, err := c.CombinedOutput(); err != nil {
			t.Skipf("git %v failed: %v\n%s", args, err, out)
		}
	}
	git("init", "-q")
	git("checkout", "-q", "-b", "main")
	git("commit", "-q", "--allow-empty", "-m", "init")
	git("worktree", "add", "-q", "-b", "feature/login", ".trees/feature-login")

	p := project{root: root, worktree: filepath.Join(root, ".trees", "feature-login")}
	p.addTask(t, "m-login.md", "---\nname: m-login\nbranch: feature/login\nstatus: pending\n---\n")
	p.addTask(t, "m-docs.md", "---\nname: m-docs\nbranch: feature/docs\nstatus: pending\n---\n")
	if _, err := runWT(t, p.worktree, "report", "Working"); err != nil {
		t.Fatal(err)
	}

	out, err := runWT(t, root, "worktrees", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		CurrentBranch string `json:"current_branch"`
		Worktrees     []struct {
			Branch    string `json:"branch"`
			TaskCount int    `json:"task_count"`
			Agent     *struct {
				TaskName string `json:"task_name"`
			} `json:"agent"`
		} `json:"worktrees"`
		BranchesWithoutWorktree []struct {
			Branch string `json:"branch"`
		} `json:"branches_without_worktree"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.CurrentBranch != "main" || len(got.Worktrees) != 2 {
		t.Fatalf("overview = %+v", got)
	}
	login := got.Worktrees[1]
	if login.Branch != "feature/login" || login.TaskCount != 1 || login.Agent == nil || login.Agent.TaskName != "login" {
		t.Errorf("login worktree = %+v", login)
	}
	if len(got.BranchesWithoutWorktree) != 1 || got.BranchesWithoutWorktree[0].Branch != "feature/docs" {
		t.Errorf("branches without worktree = %+v", got.BranchesWithoutWorktree)
	}
}

func TestPrintOverview_FlagsAgentsNeedingAttention(t *testing.T) {
	o := tasks.Overview{
		Worktrees: []tasks.WorktreeInfo{
			{Path: "/p/.trees/feature-login", Branch: "feature/login", Head: "abc1234",
				Agent: &tasks.AgentInfo{TaskName: "login", Class: monitoring.ClassBlocked, CurrentWork: "Need schema"}},
			{Path: "/p/.trees/feature-docs", Branch: "feature/docs", Head: "def5678",
				Agent: &tasks.AgentInfo{TaskName: "docs", Class: monitoring.ClassActive, CurrentWork: "Writing"}},
		},
		Summary: tasks.OverviewSummary{TotalWorktrees: 2},
	}

	var buf bytes.Buffer
	printOverview(&buf, o)
	out := buf.String()

	if !strings.Contains(out, "  ! agent: blocked  Need schema") {
		t.Errorf("blocked agent not flagged:\n%s", out)
	}
	if !strings.Contains(out, "    agent: active  Writing") {
		t.Errorf("active agent flagged or missing:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	p := newProject(t)

	out, err := runWT(t, p.root, "config", "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, constants.ConfigPath(p.root)) {
		t.Errorf("output = %q", out)
	}
	if _, err := runWT(t, p.root, "config", "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
	if _, err := runWT(t, p.root, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = runWT(t, p.root, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "stale_threshold_hours = 2") {
		t.Errorf("config show:\n%s", out)
	}

	if _, err := runWT(t, p.root, "config"); err == nil || !strings.Contains(err.Error(), "requires a subcommand") {
		t.Errorf("bare config error = %v", err)
	}
}

func TestConfig_EnvOverridesStatusDir(t *testing.T) {
	p := newProject(t)
	custom := filepath.Join(p.root, "custom-status")

	t.Chdir(p.worktree)
	resetFlags(rootCmd)
	t.Setenv(config.EnvStatusDir, custom)
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"report", "Working"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(custom, "login.json")); err != nil {
		t.Errorf("record not written to WT_STATUS_DIR: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := runWT(t, t.TempDir(), "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "wt ") {
		t.Errorf("output = %q", out)
	}
}

func TestExecute_ExitCodes(t *testing.T) {
	p := newProject(t)
	t.Chdir(p.root)
	resetFlags(rootCmd)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"cleanup-check", "feature/none"})
	if code := Execute(); code != 0 {
		t.Errorf("cleanup-check with no tasks: exit %d, want 0", code)
	}

	p.addTask(t, "m-x.md", "---\nname: m-x\nbranch: feature/none\nstatus: pending\n---\n")
	rootCmd.SetArgs([]string{"cleanup-check", "feature/none"})
	if code := Execute(); code != 1 {
		t.Errorf("cleanup-check with pending task: exit %d, want 1", code)
	}
}

func TestSilentExitError(t *testing.T) {
	err := NewSilentExit(3)
	var silent *SilentExitError
	if !errors.As(err, &silent) || silent.Code != 3 {
		t.Errorf("NewSilentExit(3) = %v", err)
	}
	if err.Error() != "exit 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestStatusLine(t *testing.T) {
	p := newProject(t)
	if _, err := runWT(t, p.worktree, "report", "Implementing form", "--todos", "2/5"); err != nil {
		t.Fatal(err)
	}

	out, err := runWT(t, p.worktree, "status-line")
	if err != nil {
		t.Fatal(err)
	}
	if out != "login: Implementing form [2/5] | 1 active\n" {
		t.Errorf("worker status line = %q", out)
	}

	out, err = runWT(t, p.root, "status-line")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1 active\n" {
		t.Errorf("orchestrator status line = %q", out)
	}
}
