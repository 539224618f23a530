package service

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrDuplicateTask = errors.New("duplicate task")
)

const (
	TaskRun            model.TaskName = "run"
	TaskDown           model.TaskName = "down"
	TaskLogs           model.TaskName = "logs"
	TaskBash           model.TaskName = "bash"
	TaskMakeMigrations model.TaskName = "makemigrations"
	TaskMigrate        model.TaskName = "migrate"
)

const (
	CommandBuild = "build"
	CommandCheck = "check"
	CommandTasks = "tasks"
)

// reservedNames are taken by the CLI itself, including the help command and its alias.
var reservedNames = []string{CommandBuild, CommandCheck, CommandTasks, "help", "h"}

type TaskRegistry interface {
	Get(name model.TaskName) (model.Task, error)
	Names() []model.TaskName
}

func NewTaskRegistry(project model.Project) (TaskRegistry, error) {
	r := &registry{
		tasks:    make(map[model.TaskName]model.Task),
		reserved: make(map[string]struct{}, len(reservedNames)),
	}
	for _, name := range reservedNames {
		r.reserved[name] = struct{}{}
	}
	for _, task := range builtinTasks(project) {
		if err := r.add(task); err != nil {
			return nil, err
		}
	}
	for _, task := range project.Tasks {
		if err := r.add(task); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type registry struct {
	order    []model.TaskName
	tasks    map[model.TaskName]model.Task
	reserved map[string]struct{}
}

func (r *registry) Get(name model.TaskName) (model.Task, error) {
	task, ok := r.tasks[name]
	if !ok {
		return model.Task{}, errors.Wrapf(ErrTaskNotFound, "task %q", name)
	}
	return task, nil
}

func (r *registry) Names() []model.TaskName {
	return append([]model.TaskName(nil), r.order...)
}

func (r *registry) add(task model.Task) error {
	if task.Name == "" {
		return errors.New("task name can not be empty")
	}
	if len(task.Args) == 0 {
		return fmt.Errorf("task %q has no arguments", task.Name)
	}
	if _, ok := r.reserved[task.Name]; ok {
		return errors.Wrapf(ErrDuplicateTask, "task %q clashes with a devtools command", task.Name)
	}
	if _, ok := r.tasks[task.Name]; ok {
		return errors.Wrapf(ErrDuplicateTask, "task %q", task.Name)
	}
	r.order = append(r.order, task.Name)
	r.tasks[task.Name] = task
	return nil
}

func builtinTasks(project model.Project) []model.Task {
	manage := func(subcommand string) []string {
		args := []string{"run", "--rm", project.Service}
		args = append(args, project.Manage...)
		return append(args, subcommand)
	}
	return []model.Task{
		{
			Name:     TaskRun,
			Usage:    "start the deployment in the background",
			Args:     []string{"up", "-d"},
			Attached: true,
		},
		{
			Name:     TaskDown,
			Usage:    "tear the deployment down",
			Args:     []string{"down"},
			Attached: true,
		},
		{
			Name:             TaskLogs,
			Usage:            fmt.Sprintf("follow logs of the %v service", project.Service),
			Args:             []string{"logs", "-f", project.Service},
			Attached:         true,
			UntilInterrupted: true,
		},
		{
			Name:     TaskBash,
			Usage:    fmt.Sprintf("open a shell inside the running %v service", project.Service),
			Args:     []string{"exec", project.Service, "bash"},
			Attached: true,
		},
		{
			Name:     TaskMakeMigrations,
			Usage:    "generate schema migrations in an ephemeral container",
			Args:     manage("makemigrations"),
			Attached: true,
		},
		{
			Name:     TaskMigrate,
			Usage:    "apply schema migrations in an ephemeral container",
			Args:     manage("migrate"),
			Attached: true,
		},
	}
}
