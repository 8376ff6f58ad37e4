package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/budgetwise/budgetwise/internal/jobs"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.ExtractReceiptJob {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	job, _ := store.GetJob(context.Background(), jobID)
	t.Fatalf("job %s never reached status %s (last: %+v)", jobID, want, job)
	return nil
}

func TestQueueProcessesJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	var handled atomic.Int32
	handler := func(ctx context.Context, job jobs.Job) error {
		handled.Add(1)
		return nil
	}
	if err := q.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ExtractReceiptJob{
		UserID:     "user-1",
		ReceiptURI: "gs://bucket/receipts/user-1/r.jpg",
		MIMEType:   "image/jpeg",
	}
	if err := q.PublishExtractReceipt(context.Background(), job); err != nil {
		t.Fatalf("PublishExtractReceipt: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("expected job ID to be assigned")
	}

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if handled.Load() != 1 {
		t.Errorf("handler called %d times, want 1", handled.Load())
	}
	if final.StartedAt == nil || final.CompletedAt == nil {
		t.Error("expected StartedAt and CompletedAt to be set")
	}
	if final.Error != "" {
		t.Errorf("unexpected error on completed job: %q", final.Error)
	}
}

func TestQueueRetriesThenFails(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	var attempts atomic.Int32
	handler := func(ctx context.Context, job jobs.Job) error {
		attempts.Add(1)
		return errors.New("model unavailable")
	}
	if err := q.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ExtractReceiptJob{
		UserID:     "user-1",
		ReceiptURI: "gs://bucket/receipts/user-1/r.jpg",
		MaxRetries: 2,
	}
	if err := q.PublishExtractReceipt(context.Background(), job); err != nil {
		t.Fatalf("PublishExtractReceipt: %v", err)
	}

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	if got := attempts.Load(); got != 3 { // initial attempt + 2 retries
		t.Errorf("handler called %d times, want 3", got)
	}
	if final.Error == "" {
		t.Error("expected error message on failed job")
	}
	if final.RetryCount != 2 {
		t.Errorf("retry count = %d, want 2", final.RetryCount)
	}
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(1, NewStore())
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err := q.PublishExtractReceipt(context.Background(), &jobs.ExtractReceiptJob{UserID: "u"})
	if err == nil {
		t.Fatal("expected publish on closed queue to fail")
	}
}

func TestStoreListJobsFilters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seed := []*jobs.ExtractReceiptJob{
		{JobID: "a", UserID: "user-1", Status: jobs.JobStatusCompleted, CreatedAt: base},
		{JobID: "b", UserID: "user-1", Status: jobs.JobStatusPending, CreatedAt: base.Add(time.Minute)},
		{JobID: "c", UserID: "user-2", Status: jobs.JobStatusPending, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s): %v", j.JobID, err)
		}
	}

	byUser, err := store.ListJobs(ctx, jobs.JobFilter{UserID: "user-1"})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("got %d jobs for user-1, want 2", len(byUser))
	}
	if byUser[0].JobID != "b" {
		t.Errorf("expected newest job first, got %s", byUser[0].JobID)
	}

	pending, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("got %d pending jobs, want 2", len(pending))
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(limited) != 1 || limited[0].JobID != "c" {
		t.Errorf("limit 1 returned %v", limited)
	}
}

func TestStoreCopiesOnSaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ExtractReceiptJob{JobID: "x", UserID: "user-1", Status: jobs.JobStatusPending}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	// Mutating the caller's copy must not affect the stored job.
	job.Status = jobs.JobStatusFailed

	got, err := store.GetJob(ctx, "x")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != jobs.JobStatusPending {
		t.Errorf("stored status = %s, want pending", got.Status)
	}
}
