package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"
	"github.com/urfave/cli/v2"

	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/command"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/config/projectconfig"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/dependency"
)

func TestExitStatus(t *testing.T) {
	require.NoError(t, exitStatus(nil))

	plain := errors.New("dependency container not found")
	require.Equal(t, plain, exitStatus(plain))

	err := exitStatus(errors.Wrap(&command.ExitError{Command: "docker-compose exec web bash", Code: 2}, "task \"bash\" failed"))
	var exitCoder cli.ExitCoder
	require.ErrorAs(t, err, &exitCoder)
	require.Equal(t, 2, exitCoder.ExitCode())
}

func TestTaskCommandsFollowRegistry(t *testing.T) {
	c, err := dependency.NewDependencyContainer(logger.NewTextLogger(), projectconfig.MapToProject(projectconfig.Default()), true)
	require.NoError(t, err)

	var names []string
	for _, cmd := range taskCommands(c.Tasks().List()) {
		names = append(names, cmd.Name)
		require.NotEmpty(t, cmd.Usage)
	}
	require.Equal(t, []string{"run", "down", "logs", "bash", "makemigrations", "migrate"}, names)
}

func TestListTasks(t *testing.T) {
	color.NoColor = true
	c, err := dependency.NewDependencyContainer(logger.NewTextLogger(), projectconfig.MapToProject(projectconfig.Default()), true)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, listTasks(dependency.WithContainer(context.Background(), c), &out))
	require.Contains(t, out.String(), "migrate         run --rm web python manage.py migrate\n")
	require.Contains(t, out.String(), "logs            logs -f web\n")

	require.Error(t, listTasks(context.Background(), &out))
}
