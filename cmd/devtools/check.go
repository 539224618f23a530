package main

import (
	stdcontext "context"

	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/dependency"
)

func check(ctx stdcontext.Context) error {
	dependencyContainer, err := dependency.FromContext(ctx)
	if err != nil {
		return err
	}
	return dependencyContainer.Project().Check()
}
