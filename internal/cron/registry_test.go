package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRunOrder(t *testing.T) {
	collect := &stubJob{name: "data-collection"}
	scan := &stubJob{name: "alert-scan"}
	prune := &stubJob{name: "stats-retention"}

	registry, err := NewRegistry(collect, nil)
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	for _, job := range []Job{scan, nil, prune} {
		if err := registry.Register(job); err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
	}

	jobs := registry.Jobs()
	if len(jobs) != 3 {
		t.Fatalf("expected nil jobs dropped, got %d jobs", len(jobs))
	}
	if jobs[0] != collect || jobs[1] != scan || jobs[2] != prune {
		t.Fatalf("jobs returned out of order")
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
	names := registry.Names()
	if len(names) != 3 || names[0] != "data-collection" || names[2] != "stats-retention" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestRegistryRejectsDuplicateAndUnnamedJobs(t *testing.T) {
	if _, err := NewRegistry(&stubJob{name: "alert-scan"}, &stubJob{name: "alert-scan"}); err == nil {
		t.Fatal("expected duplicate job name to be rejected")
	}

	var registry Registry
	if err := registry.Register(&stubJob{}); err == nil {
		t.Fatal("expected unnamed job to be rejected")
	}
	if err := registry.Register(&stubJob{name: "data-collection"}); err != nil {
		t.Fatalf("zero-value registry should accept jobs: %v", err)
	}
}
