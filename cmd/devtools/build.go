package main

import (
	stdcontext "context"

	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/dependency"
)

func build(ctx stdcontext.Context) error {
	dependencyContainer, err := dependency.FromContext(ctx)
	if err != nil {
		return err
	}
	return exitStatus(dependencyContainer.Project().Build(ctx))
}
