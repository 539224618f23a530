package recipe

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
	"github.com/tss-calculator/devtools/pkg/devtools/application/service"
	"github.com/tss-calculator/devtools/pkg/devtools/infrastructure/command"
)

const (
	DigestLabel = "org.swapi.manifest.digest"

	digestTagLength = 12
)

func NewImageBuilder(
	logger applogger.Logger,
	renderer Renderer,
	runner command.Runner,
) service.ImageBuilder {
	return &imageBuilder{
		logger:   logger,
		renderer: renderer,
		runner:   runner,
	}
}

type imageBuilder struct {
	logger   applogger.Logger
	renderer Renderer
	runner   command.Runner
}

func (builder imageBuilder) Build(ctx context.Context, image model.Image, manifest model.Manifest) error {
	if len(image.Builder) == 0 {
		return errors.New("image builder is not configured")
	}
	recipePath, cleanup, err := builder.renderer.Render(image, manifest)
	if err != nil {
		return err
	}
	defer cleanup()
	builder.logger.Debug(fmt.Sprintf("build recipe %v", recipePath))

	args := append([]string{}, image.Builder[1:]...)
	args = append(args,
		"build",
		"-f", recipePath,
		"-t", image.Name+":latest",
		"-t", image.Name+":"+DigestTag(manifest),
		"--label", DigestLabel+"="+manifest.Digest.String(),
		image.Context,
	)
	_, err = builder.runner.Execute(ctx, command.Command{
		Executable: image.Builder[0],
		Args:       args,
		Attached:   true,
	})
	return err
}

// DigestTag returns the content-addressed tag of an image built from manifest.
func DigestTag(manifest model.Manifest) string {
	encoded := manifest.Digest.Encoded()
	if len(encoded) > digestTagLength {
		encoded = encoded[:digestTagLength]
	}
	return encoded
}
