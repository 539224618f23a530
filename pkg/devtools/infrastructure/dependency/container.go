package dependency

import (
	"context"
	"errors"
	"os"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
	"github.com/tss-calculator/devtools/pkg/devtools/application/service"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/command"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/compose"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/manifest"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/recipe"
)

type containerKey struct{}

type Container interface {
	Tasks() service.Tasks
	Project() service.Project
}

func NewDependencyContainer(
	logger applogger.Logger,
	projectConfig model.Project,
	silentMode bool,
) (Container, error) {
	registry, err := service.NewTaskRegistry(projectConfig)
	if err != nil {
		return nil, err
	}
	runner := command.NewCommandRunner(logger, silentMode)
	orchestrator := compose.NewOrchestrator(projectConfig.Compose, logger, runner, compose.EnvOptions)
	imageBuilder := recipe.NewImageBuilder(logger, recipe.NewRenderer(os.TempDir()), runner)
	projectService := service.NewProjectService(
		projectConfig,
		logger,
		manifest.NewLoader(),
		compose.NewFileValidator(projectConfig.Compose.File),
		imageBuilder,
	)

	return &container{
		tasks:   service.NewTaskService(logger, registry, orchestrator),
		project: projectService,
	}, nil
}

type container struct {
	tasks   service.Tasks
	project service.Project
}

func (c *container) Tasks() service.Tasks {
	return c.tasks
}

func (c *container) Project() service.Project {
	return c.project
}

// FromContext returns the container stored by WithContainer.
func FromContext(ctx context.Context) (Container, error) {
	if c, ok := ctx.Value(containerKey{}).(Container); ok {
		return c, nil
	}
	return nil, errors.New("dependency container not found in context")
}

func WithContainer(ctx context.Context, c Container) context.Context {
	return context.WithValue(ctx, containerKey{}, c)
}
