package compose

import (
	"context"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
	"github.com/tss-calculator/devtools/pkg/devtools/application/service"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/command"
)

// OptionsEnv holds extra global options for the orchestration tool, e.g. "-p swapi --env-file .env.dev".
const OptionsEnv = "COMPOSE_OPTIONS"

type OptionsSource func() string

func EnvOptions() string {
	return os.Getenv(OptionsEnv)
}

func NewOrchestrator(
	config model.Compose,
	logger applogger.Logger,
	runner command.Runner,
	options OptionsSource,
) service.Orchestrator {
	return &orchestrator{
		config:  config,
		logger:  logger,
		runner:  runner,
		options: options,
	}
}

type orchestrator struct {
	config  model.Compose
	logger  applogger.Logger
	runner  command.Runner
	options OptionsSource
}

func (o orchestrator) Invoke(ctx context.Context, task model.Task) error {
	cmd, err := o.Command(task)
	if err != nil {
		return err
	}
	output, err := o.runner.Execute(ctx, cmd)
	if output = strings.TrimSpace(output); output != "" {
		o.logger.Info(output)
	}
	return err
}

// Command composes the orchestration tool invocation for task without running it.
func (o orchestrator) Command(task model.Task) (command.Command, error) {
	if len(o.config.Executable) == 0 {
		return command.Command{}, errors.New("orchestration executable is not configured")
	}
	options, err := shellwords.Parse(o.options())
	if err != nil {
		return command.Command{}, errors.Wrapf(err, "failed to parse %v", OptionsEnv)
	}

	args := append([]string{}, o.config.Executable[1:]...)
	if o.config.File != "" {
		args = append(args, "-f", o.config.File)
	}
	args = append(args, options...)
	args = append(args, task.Args...)

	return command.Command{
		Executable: o.config.Executable[0],
		Args:       args,
		Attached:   task.Attached,
	}, nil
}
