package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"
	"github.com/urfave/cli/v2"

	"github.com/tss-calculator/devtools/pkg/devtools/application/service"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/config/projectconfig"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/dependency"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	mainLogger := logger.NewTextLogger()

	projectConfig, err := projectconfig.Load(projectconfig.Path())
	if err != nil {
		mainLogger.FatalError(err, "failed load project config")
	}
	container, err := dependency.NewDependencyContainer(mainLogger, projectConfig, os.Getenv("SILENT") != "")
	if err != nil {
		mainLogger.FatalError(err, "failed create dependency container")
	}
	ctx = dependency.WithContainer(ctx, container)

	commands := taskCommands(container.Tasks().List())
	commands = append(commands,
		&cli.Command{
			Name:  service.CommandBuild,
			Usage: "build the application image from the dependency manifest",
			Action: func(c *cli.Context) error {
				return build(c.Context)
			},
		},
		&cli.Command{
			Name:  service.CommandCheck,
			Usage: "validate the compose file and the dependency manifest",
			Action: func(c *cli.Context) error {
				return check(c.Context)
			},
		},
		&cli.Command{
			Name:  service.CommandTasks,
			Usage: "list available tasks",
			Action: func(c *cli.Context) error {
				return listTasks(c.Context, c.App.Writer)
			},
		},
	)

	app := &cli.App{
		Name:     "devtools",
		Usage:    "operate the swapi deployment",
		Commands: commands,
	}
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		mainLogger.FatalError(err, "failed execute command "+strings.Join(os.Args, " "))
	}
}
