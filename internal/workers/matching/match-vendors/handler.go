// internal/workers/matching/match-vendors/handler.go
package matchvendors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/matching"
	"matching-engine/internal/models"
)

const (
	TaskType = "match-vendors"
)

// Runner is the engine surface the worker depends on.
type Runner interface {
	Run(ctx context.Context, criteria models.MatchingCriteria) (*matching.Result, error)
}

type Handler struct {
	config *Config
	engine Runner
	logger logger.Logger
}

func NewHandler(config *Config, engine Runner, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(errors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	result, err := h.execute(ctx, &input)
	if err != nil {
		code := string(errors.ErrCodeDataUnavailable)
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) {
			code = errors.ConvertToBPMNError(stdErr).Code
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, result)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*matching.Result, error) {
	return h.engine.Run(ctx, input.Criteria)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, result *matching.Result) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(result)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*matching.Result, error) {
	return h.execute(ctx, input)
}
