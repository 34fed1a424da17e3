package taskstore

import (
	"strings"

	"task-tracker/domain/dto"
	"task-tracker/domain/models"
)

// FilterAll disables a Filter field, same as leaving it empty.
const FilterAll = "all"

type Filter struct {
	Query    string // case-insensitive, title OR description OR project
	Status   string
	Priority string
	Project  string // exact match
}

func isAll(v string) bool {
	return v == "" || v == FilterAll
}

func (f Filter) Matches(t dto.TaskResponse) bool {
	if f.Query != "" && !matchesQuery(t, strings.ToLower(f.Query)) {
		return false
	}
	if !isAll(f.Status) && t.Status != f.Status {
		return false
	}
	if !isAll(f.Priority) && t.Priority != f.Priority {
		return false
	}
	if !isAll(f.Project) && (t.Project == nil || *t.Project != f.Project) {
		return false
	}
	return true
}

func matchesQuery(t dto.TaskResponse, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), query) {
		return true
	}
	return t.Project != nil && strings.Contains(strings.ToLower(*t.Project), query)
}

// Apply keeps order and never returns nil.
func (f Filter) Apply(tasks []dto.TaskResponse) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

type Counts struct {
	Total      int
	Completed  int
	InProgress int
}

func Summarize(tasks []dto.TaskResponse) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			c.Completed++
		case models.StatusInProgress:
			c.InProgress++
		}
	}
	return c
}

// DistinctProjects lists non-empty projects in first-seen order.
func DistinctProjects(tasks []dto.TaskResponse) []string {
	seen := make(map[string]struct{})
	projects := make([]string, 0)
	for _, t := range tasks {
		if t.Project == nil || *t.Project == "" {
			continue
		}
		if _, ok := seen[*t.Project]; ok {
			continue
		}
		seen[*t.Project] = struct{}{}
		projects = append(projects, *t.Project)
	}
	return projects
}
