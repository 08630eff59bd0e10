package tasks

import (
	"context"
	"testing"
	"time"

	"barakah/models"

	"go.uber.org/zap"
)

type MockPublisher struct {
	PublishFunc func(ctx context.Context, job models.PDFJob) error
}

func (m *MockPublisher) Publish(ctx context.Context, job models.PDFJob) error {
	return m.PublishFunc(ctx, job)
}

func TestInlineDispatcherRunsDetached(t *testing.T) {
	done := make(chan models.PDFJob, 1)
	pub := &MockPublisher{PublishFunc: func(ctx context.Context, job models.PDFJob) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("publish context should carry a deadline")
		}
		done <- job
		return nil
	}}
	d := NewInlineDispatcher(pub, time.Minute, zap.NewNop())

	reqCtx, cancel := context.WithCancel(context.Background())
	if err := d.Dispatch(reqCtx, models.PDFJob{ID: "job-1"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	cancel()

	select {
	case job := <-done:
		if job.ID != "job-1" {
			t.Errorf("job id = %q", job.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("publisher was not called")
	}
}

func TestRenderPDFTaskRoundTrip(t *testing.T) {
	job := models.PDFJob{ID: "abc", Content: models.DuaContent{Translation: "t", Situation: "s"}}
	task, opts, err := NewRenderPDFTask(job)
	if err != nil {
		t.Fatal(err)
	}
	if task.Type() != TypeRenderPDF {
		t.Errorf("Type() = %q", task.Type())
	}
	if len(opts) != 2 {
		t.Errorf("len(opts) = %d", len(opts))
	}
	got, err := ParseRenderPDFTask(task)
	if err != nil || got.ID != "abc" || got.Content.Translation != "t" {
		t.Errorf("ParseRenderPDFTask() = %+v, %v", got, err)
	}
}
