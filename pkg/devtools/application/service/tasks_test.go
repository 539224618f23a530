package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
)

type recordingOrchestrator struct {
	invoked []model.Task
	err     error
}

func (o *recordingOrchestrator) Invoke(_ context.Context, task model.Task) error {
	o.invoked = append(o.invoked, task)
	return o.err
}

func testProject() model.Project {
	return model.Project{
		Service: "web",
		Manage:  []string{"python", "manage.py"},
	}
}

func newTestService(t *testing.T, orchestrator Orchestrator) Tasks {
	t.Helper()
	registry, err := NewTaskRegistry(testProject())
	require.NoError(t, err)
	return NewTaskService(logger.NewTextLogger(), registry, orchestrator)
}

func TestBuiltinTaskCommands(t *testing.T) {
	tests := []struct {
		name     model.TaskName
		args     []string
		attached bool
	}{
		{name: TaskRun, args: []string{"up", "-d"}, attached: true},
		{name: TaskDown, args: []string{"down"}, attached: true},
		{name: TaskLogs, args: []string{"logs", "-f", "web"}, attached: true},
		{name: TaskBash, args: []string{"exec", "web", "bash"}, attached: true},
		{name: TaskMakeMigrations, args: []string{"run", "--rm", "web", "python", "manage.py", "makemigrations"}, attached: true},
		{name: TaskMigrate, args: []string{"run", "--rm", "web", "python", "manage.py", "migrate"}, attached: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orchestrator := &recordingOrchestrator{}
			service := newTestService(t, orchestrator)

			require.NoError(t, service.Run(context.Background(), tt.name))
			require.NoError(t, service.Run(context.Background(), tt.name))

			require.Len(t, orchestrator.invoked, 2)
			for _, task := range orchestrator.invoked {
				require.Equal(t, tt.args, task.Args)
				require.Equal(t, tt.attached, task.Attached)
			}
		})
	}
}

func TestRunPropagatesFailure(t *testing.T) {
	failure := errors.New("service \"web\" is not running")
	orchestrator := &recordingOrchestrator{err: failure}
	service := newTestService(t, orchestrator)

	err := service.Run(context.Background(), TaskBash)
	require.ErrorIs(t, err, failure)
	require.Len(t, orchestrator.invoked, 1)
}

func TestLogsEndsQuietlyOnInterrupt(t *testing.T) {
	orchestrator := &recordingOrchestrator{err: context.Canceled}
	service := newTestService(t, orchestrator)

	require.NoError(t, service.Run(context.Background(), TaskLogs))
	require.ErrorIs(t, service.Run(context.Background(), TaskMigrate), context.Canceled)
}

type exitStatusError struct {
	code int
}

func (e exitStatusError) Error() string {
	return "docker-compose exited"
}

func (e exitStatusError) ExitCode() int {
	return e.code
}

func TestLogsEndsQuietlyWhenToolExitsOnInterrupt(t *testing.T) {
	for _, code := range []int{130, 143} {
		orchestrator := &recordingOrchestrator{err: exitStatusError{code: code}}
		service := newTestService(t, orchestrator)

		require.NoError(t, service.Run(context.Background(), TaskLogs))
		require.Error(t, service.Run(context.Background(), TaskBash))
	}

	orchestrator := &recordingOrchestrator{err: exitStatusError{code: 1}}
	service := newTestService(t, orchestrator)
	require.Error(t, service.Run(context.Background(), TaskLogs))
}

func TestLogsEndsQuietlyAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	orchestrator := &recordingOrchestrator{err: exitStatusError{code: 2}}
	service := newTestService(t, orchestrator)

	require.NoError(t, service.Run(ctx, TaskLogs))
}

func TestRunUnknownTask(t *testing.T) {
	orchestrator := &recordingOrchestrator{}
	service := newTestService(t, orchestrator)

	err := service.Run(context.Background(), "collectstatic")
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.Empty(t, orchestrator.invoked)
}

func TestListKeepsDeclarationOrder(t *testing.T) {
	project := testProject()
	project.Tasks = []model.Task{{Name: "test", Args: []string{"run", "--rm", "web", "python", "manage.py", "test"}}}
	registry, err := NewTaskRegistry(project)
	require.NoError(t, err)
	service := NewTaskService(logger.NewTextLogger(), registry, &recordingOrchestrator{})

	var names []model.TaskName
	for _, task := range service.List() {
		names = append(names, task.Name)
	}
	require.Equal(t, []model.TaskName{
		TaskRun, TaskDown, TaskLogs, TaskBash, TaskMakeMigrations, TaskMigrate, "test",
	}, names)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	project := testProject()
	project.Tasks = []model.Task{{Name: TaskMigrate, Args: []string{"run", "web", "true"}}}

	_, err := NewTaskRegistry(project)
	require.ErrorIs(t, err, ErrDuplicateTask)
}

func TestRegistryRejectsCommandNames(t *testing.T) {
	for _, name := range []model.TaskName{CommandBuild, CommandCheck, CommandTasks, "help", "h"} {
		project := testProject()
		project.Tasks = []model.Task{{Name: name, Args: []string{"build"}}}

		_, err := NewTaskRegistry(project)
		require.ErrorIs(t, err, ErrDuplicateTask, name)
	}
}

func TestRegistryRejectsEmptyTask(t *testing.T) {
	project := testProject()
	project.Tasks = []model.Task{{Name: "noop"}}

	_, err := NewTaskRegistry(project)
	require.Error(t, err)
}
