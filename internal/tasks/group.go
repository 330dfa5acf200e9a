package tasks

import "github.com/groblegark/wtstatus/internal/workspace"

// StatusCounts counts tasks per known status.
type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in-progress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
}

// Add counts one task status. Unknown statuses are not counted.
func (c *StatusCounts) Add(status string) {
	switch status {
	case StatusPending:
		c.Pending++
	case StatusInProgress:
		c.InProgress++
	case StatusCompleted:
		c.Completed++
	case StatusBlocked:
		c.Blocked++
	}
}

// BranchTasks is the task group of one branch.
type BranchTasks struct {
	Folder         string       `json:"folder"`
	WorktreePath   string       `json:"worktree_path"`
	WorktreeExists bool         `json:"worktree_exists"`
	TaskCount      int          `json:"task_count"`
	Tasks          []Task       `json:"tasks"`
	Statuses       StatusCounts `json:"statuses"`
}

// GroupSummary totals a Grouping.
type GroupSummary struct {
	TotalBranches      int `json:"total_branches"`
	TotalTasks         int `json:"total_tasks"`
	TasksWithoutBranch int `json:"tasks_without_branch"`
}

// Grouping is every task grouped by its branch.
type Grouping struct {
	Branches           map[string]*BranchTasks `json:"branches"`
	Summary            GroupSummary            `json:"summary"`
	TasksWithoutBranch []Task                  `json:"tasks_without_branch,omitempty"`
}

// GroupByBranch groups tasks by their frontmatter branch. Tasks without a
// branch are collected separately.
func GroupByBranch(all []Task, layout Layout) Grouping {
	g := Grouping{Branches: map[string]*BranchTasks{}}
	for _, t := range all {
		if t.Branch == "" {
			g.TasksWithoutBranch = append(g.TasksWithoutBranch, t)
			continue
		}
		bt, ok := g.Branches[t.Branch]
		if !ok {
			bt = &BranchTasks{
				Folder:         workspace.FolderFromBranch(t.Branch),
				WorktreePath:   layout.WorktreePath(t.Branch),
				WorktreeExists: layout.WorktreeExists(t.Branch),
				Tasks:          []Task{},
			}
			g.Branches[t.Branch] = bt
		}
		bt.Tasks = append(bt.Tasks, t)
		bt.TaskCount++
		bt.Statuses.Add(t.Status)
		g.Summary.TotalTasks++
	}
	g.Summary.TotalBranches = len(g.Branches)
	g.Summary.TasksWithoutBranch = len(g.TasksWithoutBranch)
	return g
}
