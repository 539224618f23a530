package dependency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
	"github.com/tss-calculator/devtools/pkg/devtools/application/service"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/config/projectconfig"
)

func TestContainerRoundTripsThroughContext(t *testing.T) {
	_, err := FromContext(context.Background())
	require.Error(t, err)

	c, err := NewDependencyContainer(logger.NewTextLogger(), projectconfig.MapToProject(projectconfig.Default()), true)
	require.NoError(t, err)

	found, err := FromContext(WithContainer(context.Background(), c))
	require.NoError(t, err)
	require.Same(t, c, found)
	require.Len(t, found.Tasks().List(), 6)
}

func TestContainerRejectsShadowedTask(t *testing.T) {
	project := projectconfig.MapToProject(projectconfig.Default())
	project.Tasks = []model.Task{{Name: service.TaskRun, Args: []string{"up"}}}

	_, err := NewDependencyContainer(logger.NewTextLogger(), project, true)
	require.ErrorIs(t, err, service.ErrDuplicateTask)
}

func TestContainerRejectsTaskNamedAfterCommand(t *testing.T) {
	project := projectconfig.MapToProject(projectconfig.Default())
	project.Tasks = []model.Task{{Name: service.CommandBuild, Args: []string{"build"}}}

	_, err := NewDependencyContainer(logger.NewTextLogger(), project, true)
	require.ErrorIs(t, err, service.ErrDuplicateTask)
}
