package tasks

import (
	"sort"
	"strings"
	"time"

	"github.com/groblegark/wtstatus/internal/git"
	"github.com/groblegark/wtstatus/internal/monitoring"
	"github.com/groblegark/wtstatus/internal/workspace"
)

// AgentInfo is the reported agent state of a worktree's task.
type AgentInfo struct {
	TaskName    string           `json:"task_name"`
	Class       monitoring.Class `json:"class"`
	CurrentWork string           `json:"current_work"`
	LastUpdate  time.Time        `json:"last_update"`
}

// WorktreeInfo is one worktree with its tasks and agent state.
type WorktreeInfo struct {
	Path            string     `json:"path"`
	Branch          string     `json:"branch"`
	Head            string     `json:"head"`
	IsCurrent       bool       `json:"is_current"`
	IsTreesWorktree bool       `json:"is_trees_worktree"`
	Tasks           []Task     `json:"tasks"`
	TaskCount       int        `json:"task_count"`
	Agent           *AgentInfo `json:"agent"`
}

// MissingWorktree is a branch that has tasks but no worktree.
type MissingWorktree struct {
	Branch        string `json:"branch"`
	Folder        string `json:"folder"`
	SuggestedPath string `json:"suggested_path"`
	Tasks         []Task `json:"tasks"`
	TaskCount     int    `json:"task_count"`
}

// OverviewSummary totals an Overview.
type OverviewSummary struct {
	TotalWorktrees         int `json:"total_worktrees"`
	TotalBranchesWithTasks int `json:"total_branches_with_tasks"`
	ActiveAgents           int `json:"active_agents"`
	BlockedAgents          int `json:"blocked_agents"`
	StaleAgents            int `json:"stale_agents"`
}

// Overview relates worktrees, task files and agent status.
type Overview struct {
	CurrentBranch           string            `json:"current_branch"`
	Worktrees               []WorktreeInfo    `json:"worktrees"`
	BranchesWithoutWorktree []MissingWorktree `json:"branches_without_worktree"`
	Summary                 OverviewSummary   `json:"summary"`
}

// BuildOverview joins the worktree list with task files and the agent
// status summary. A worktree's agent is found by the task name derived from
// its branch.
func BuildOverview(current string, worktrees []git.Worktree, all []Task, agents monitoring.Summary, layout Layout) Overview {
	byBranch := map[string][]Task{}
	for _, t := range all {
		if t.Branch != "" {
			byBranch[t.Branch] = append(byBranch[t.Branch], t)
		}
	}
	byTask := make(map[string]monitoring.Entry, len(agents.Agents))
	for _, e := range agents.Agents {
		byTask[e.TaskName] = e
	}

	o := Overview{
		CurrentBranch:           current,
		Worktrees:               []WorktreeInfo{},
		BranchesWithoutWorktree: []MissingWorktree{},
	}
	seen := map[string]bool{}
	for _, wt := range worktrees {
		info := WorktreeInfo{
			Path:            wt.Path,
			Branch:          wt.Branch,
			Head:            shortHead(wt.Head),
			IsCurrent:       wt.Branch != "" && wt.Branch == current,
			IsTreesWorktree: isTreesPath(wt.Path, layout.TreesDir),
			Tasks:           byBranch[wt.Branch],
		}
		if info.Tasks == nil {
			info.Tasks = []Task{}
		}
		info.TaskCount = len(info.Tasks)
		if wt.Branch != "" {
			seen[wt.Branch] = true
			if e, ok := byTask[workspace.TaskNameFromBranch(wt.Branch)]; ok {
				info.Agent = &AgentInfo{
					TaskName:    e.TaskName,
					Class:       e.Class,
					CurrentWork: e.CurrentWork,
					LastUpdate:  e.LastUpdate,
				}
				switch e.Class {
				case monitoring.ClassActive:
					o.Summary.ActiveAgents++
				case monitoring.ClassBlocked:
					o.Summary.BlockedAgents++
				case monitoring.ClassStale:
					o.Summary.StaleAgents++
				}
			}
		}
		o.Worktrees = append(o.Worktrees, info)
	}

	branches := make([]string, 0, len(byBranch))
	for b := range byBranch {
		branches = append(branches, b)
	}
	sort.Strings(branches)
	for _, b := range branches {
		if seen[b] {
			continue
		}
		o.BranchesWithoutWorktree = append(o.BranchesWithoutWorktree, MissingWorktree{
			Branch:        b,
			Folder:        workspace.FolderFromBranch(b),
			SuggestedPath: layout.WorktreePath(b),
			Tasks:         byBranch[b],
			TaskCount:     len(byBranch[b]),
		})
	}

	o.Summary.TotalWorktrees = len(worktrees)
	o.Summary.TotalBranchesWithTasks = len(byBranch)
	return o
}

func shortHead(head string) string {
	if len(head) > 8 {
		return head[:8]
	}
	return head
}

func isTreesPath(path, treesDir string) bool {
	name := "/" + strings.Trim(treesDir, "/")
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.Contains(path, name+"/") || strings.HasSuffix(path, name)
}
