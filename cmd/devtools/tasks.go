package main

import (
	stdcontext "context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/command"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/dependency"
)

func taskCommands(tasks []model.Task) []*cli.Command {
	commands := make([]*cli.Command, 0, len(tasks))
	for _, task := range tasks {
		name := task.Name
		commands = append(commands, &cli.Command{
			Name:  name,
			Usage: task.Usage,
			Action: func(c *cli.Context) error {
				return runTask(c.Context, name)
			},
		})
	}
	return commands
}

func runTask(ctx stdcontext.Context, name model.TaskName) error {
	dependencyContainer, err := dependency.FromContext(ctx)
	if err != nil {
		return err
	}
	return exitStatus(dependencyContainer.Tasks().Run(ctx, name))
}

func listTasks(ctx stdcontext.Context, w io.Writer) error {
	dependencyContainer, err := dependency.FromContext(ctx)
	if err != nil {
		return err
	}
	name := color.New(color.FgGreen, color.Bold)
	for _, task := range dependencyContainer.Tasks().List() {
		name.Fprintf(w, "%-16s", task.Name)
		fmt.Fprintf(w, "%v\n", strings.Join(task.Args, " "))
	}
	return nil
}

// exitStatus makes the process exit with the status of the failed invocation.
func exitStatus(err error) error {
	if code, ok := command.ExitCode(err); ok {
		return cli.Exit(err.Error(), code)
	}
	return err
}
