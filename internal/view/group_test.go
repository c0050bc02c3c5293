package view

import (
	"testing"
	"time"

	"github.com/cone387/ttask/internal/models"
)

var noProjects = func(int64) string { return "" }

func flatten(grouped []GroupedList) []models.Task {
	var out []models.Task
	for _, g := range grouped {
		out = append(out, g.Tasks...)
	}
	return out
}

func groupNames(grouped []GroupedList) []string {
	out := make([]string, len(grouped))
	for i, g := range grouped {
		out[i] = g.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGroupNoneSingleBucket(t *testing.T) {
	tasks := []models.Task{task(1), task(2)}
	got := GroupTasks(tasks, GroupNone, nil, noProjects, time.Now())
	if len(got) != 1 || len(got[0].Tasks) != 2 {
		t.Fatalf("got %d groups, want one group with all tasks", len(got))
	}
}

func TestGroupCustomKeepsEmptyGroupsVisible(t *testing.T) {
	tasks := []models.Task{
		task(1, withGroup("Work")),
		task(2),
		task(3, withGroup("Gone")), // group no longer declared
	}
	got := GroupTasks(tasks, GroupCustom, []string{"Work", "Home"}, noProjects, time.Now())
	wantNames := []string{DefaultGroupName, "Work", "Home"}
	if !equalStrings(groupNames(got), wantNames) {
		t.Fatalf("group names %v, want %v", groupNames(got), wantNames)
	}
	// unknown group folds into default
	if !equalIDs(ids(got[0].Tasks), []int64{2, 3}) {
		t.Errorf("default bucket %v, want [2 3]", ids(got[0].Tasks))
	}
	if !equalIDs(ids(got[1].Tasks), []int64{1}) {
		t.Errorf("Work bucket %v, want [1]", ids(got[1].Tasks))
	}
	if len(got[2].Tasks) != 0 {
		t.Errorf("Home bucket should be empty, got %v", ids(got[2].Tasks))
	}
}

func TestGroupPriorityOmitsEmptyBuckets(t *testing.T) {
	tasks := []models.Task{
		task(1, withPriority(models.PriorityLow)),
		task(2, withPriority(models.PriorityUrgent)),
		task(3, withPriority(models.PriorityLow)),
	}
	got := GroupTasks(tasks, GroupPriority, nil, noProjects, time.Now())
	wantNames := []string{"Urgent", "Low"}
	if !equalStrings(groupNames(got), wantNames) {
		t.Fatalf("group names %v, want %v", groupNames(got), wantNames)
	}
}

func TestGroupProjectBuckets(t *testing.T) {
	resolve := func(id int64) string {
		if id == 5 {
			return "Errands"
		}
		return ""
	}
	tasks := []models.Task{
		task(1, withProject(5)),
		task(2),
		task(3, withProject(5)),
	}
	got := GroupTasks(tasks, GroupProject, nil, resolve, time.Now())
	wantNames := []string{"Errands", "No Project"}
	if !equalStrings(groupNames(got), wantNames) {
		t.Fatalf("group names %v, want %v", groupNames(got), wantNames)
	}
	if !equalIDs(ids(got[0].Tasks), []int64{1, 3}) {
		t.Errorf("Errands bucket %v, want [1 3]", ids(got[0].Tasks))
	}
}

func TestGroupTagBuckets(t *testing.T) {
	tasks := []models.Task{
		task(1, withTags(9)),
		task(2),
	}
	got := GroupTasks(tasks, GroupTag, nil, noProjects, time.Now())
	if !equalStrings(groupNames(got), []string{"Tagged", "Untagged"}) {
		t.Fatalf("group names %v", groupNames(got))
	}
	// either bucket is omitted when empty
	got = GroupTasks(tasks[:1], GroupTag, nil, noProjects, time.Now())
	if !equalStrings(groupNames(got), []string{"Tagged"}) {
		t.Fatalf("group names %v, want [Tagged]", groupNames(got))
	}
}

func TestGroupDateBucketBoundaries(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	dayStart := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{"just before today's start", dayStart.Add(-time.Second), "Overdue"},
		{"exactly now", now, "Today"},
		{"start of today", dayStart, "Today"},
		{"end of today", dayStart.Add(24*time.Hour - time.Second), "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "This Week"},
		{"exactly seven days out", now.Add(7 * 24 * time.Hour), "This Week"},
		{"seven days and a second", now.Add(7*24*time.Hour + time.Second), "Future"},
	}
	for _, tt := range tests {
		due := tt.due
		if got := dateBucket(&due, now); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
	if got := dateBucket(nil, now); got != "No Due Date" {
		t.Errorf("nil due: got %q, want No Due Date", got)
	}
}

func TestGroupingCompleteness(t *testing.T) {
	now := time.Now()
	due := now.Add(time.Hour)
	tasks := []models.Task{
		task(1, withGroup("Work"), withPriority(models.PriorityHigh)),
		task(2, withDue(due)),
		task(3, withTags(4)),
		task(4, withProject(7)),
	}
	for _, by := range []GroupBy{GroupCustom, GroupPriority, GroupProject, GroupTag, GroupDate} {
		got := GroupTasks(tasks, by, []string{"Work"}, noProjects, now)
		flat := flatten(got)
		if len(flat) != len(tasks) {
			t.Errorf("%s: flattened %d tasks, want %d", by, len(flat), len(tasks))
			continue
		}
		seen := map[int64]bool{}
		for _, ft := range flat {
			if seen[ft.ID] {
				t.Errorf("%s: task %d appears twice", by, ft.ID)
			}
			seen[ft.ID] = true
		}
	}
}

func TestRegroupingIdempotent(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		task(1, withGroup("Work")),
		task(2),
		task(3, withGroup("Home")),
	}
	groups := []string{"Work", "Home"}
	first := GroupTasks(tasks, GroupCustom, groups, noProjects, now)
	again := GroupTasks(flatten(first), GroupCustom, groups, noProjects, now)
	if !equalStrings(groupNames(first), groupNames(again)) {
		t.Fatalf("group names changed: %v vs %v", groupNames(first), groupNames(again))
	}
	for i := range first {
		if !equalIDs(ids(first[i].Tasks), ids(again[i].Tasks)) {
			t.Errorf("bucket %q changed: %v vs %v", first[i].Name, ids(first[i].Tasks), ids(again[i].Tasks))
		}
	}
}

func TestGroupAssignmentResolve(t *testing.T) {
	known := []string{"Work"}
	if got := Resolve("", known); !got.IsDefault() {
		t.Error("empty field should resolve to default")
	}
	if got := Resolve("Work", known); got.IsDefault() || got.Name() != "Work" {
		t.Errorf("known name resolved to %q", got.Name())
	}
	if got := Resolve("Gone", known); !got.IsDefault() {
		t.Error("unknown name should fold into default")
	}
	if DefaultGroup.Field() != "" {
		t.Error("default assignment must persist as the empty field")
	}
}
