package tasks

import (
	"encoding/json"

	"barakah/models"

	"github.com/hibiken/asynq"
)

const TypeRenderPDF = "pdf:render"

// NewRenderPDFTask builds a one-shot render task. Failed renders are not retried.
func NewRenderPDFTask(job models.PDFJob) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRenderPDF, b)
	opts := []asynq.Option{asynq.MaxRetry(0), asynq.TaskID("pdf:" + job.ID)}

	return task, opts, nil
}

// ParseRenderPDFTask decodes a task payload.
func ParseRenderPDFTask(task *asynq.Task) (models.PDFJob, error) {
	var job models.PDFJob
	err := json.Unmarshal(task.Payload(), &job)
	return job, err
}
