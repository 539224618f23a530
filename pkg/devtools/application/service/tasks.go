package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
)

const (
	exitSIGINT  = 130
	exitSIGTERM = 143
)

type Orchestrator interface {
	Invoke(ctx context.Context, task model.Task) error
}

type Tasks interface {
	Run(ctx context.Context, name model.TaskName) error
	List() []model.Task
}

func NewTaskService(
	logger applogger.Logger,
	registry TaskRegistry,
	orchestrator Orchestrator,
) Tasks {
	return &tasks{
		logger:       logger,
		registry:     registry,
		orchestrator: orchestrator,
	}
}

type tasks struct {
	logger       applogger.Logger
	registry     TaskRegistry
	orchestrator Orchestrator
}

func (service tasks) Run(ctx context.Context, name model.TaskName) error {
	task, err := service.registry.Get(name)
	if err != nil {
		return err
	}
	service.logger.Info(fmt.Sprintf("start task \"%v\"...", task.Name))
	start := time.Now()
	defer func() {
		service.logger.Info(fmt.Sprintf("done in %v", time.Since(start).String()))
	}()

	err = service.orchestrator.Invoke(ctx, task)
	if err != nil && task.UntilInterrupted && interrupted(ctx, err) {
		return nil
	}
	return errors.Wrapf(err, "task %q failed", task.Name)
}

func (service tasks) List() []model.Task {
	names := service.registry.Names()
	result := make([]model.Task, 0, len(names))
	for _, name := range names {
		task, err := service.registry.Get(name)
		if err != nil {
			continue
		}
		result = append(result, task)
	}
	return result
}

// interrupted reports whether err is the result of the operator stopping the task.
// The tool may exit on the terminal's SIGINT before the context is cancelled.
func interrupted(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return true
	}
	var exitCoder interface{ ExitCode() int }
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		return code == exitSIGINT || code == exitSIGTERM
	}
	return false
}
