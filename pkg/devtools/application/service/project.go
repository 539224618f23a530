package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
)

type ManifestLoader interface {
	Load(lockPath, projectPath string) (model.Manifest, error)
}

type ComposeValidator interface {
	Validate(service string) ([]string, error)
}

type ImageBuilder interface {
	Build(ctx context.Context, image model.Image, manifest model.Manifest) error
}

type Project interface {
	Build(ctx context.Context) error
	Check() error
}

func NewProjectService(
	config model.Project,
	logger applogger.Logger,
	manifestLoader ManifestLoader,
	composeValidator ComposeValidator,
	imageBuilder ImageBuilder,
) Project {
	return &project{
		config:           config,
		logger:           logger,
		manifestLoader:   manifestLoader,
		composeValidator: composeValidator,
		imageBuilder:     imageBuilder,
	}
}

type project struct {
	config model.Project

	logger           applogger.Logger
	manifestLoader   ManifestLoader
	composeValidator ComposeValidator
	imageBuilder     ImageBuilder
}

func (service project) Build(ctx context.Context) error {
	image := service.config.Image
	manifest, err := service.loadManifest()
	if err != nil {
		return err
	}

	service.logger.Info(fmt.Sprintf("start build image \"%v\"...", image.Name))
	start := time.Now()
	defer func() {
		service.logger.Info(fmt.Sprintf("done in %v", time.Since(start).String()))
	}()
	return errors.Wrapf(service.imageBuilder.Build(ctx, image, manifest), "failed to build image %v", image.Name)
}

func (service project) Check() error {
	services, err := service.composeValidator.Validate(service.config.Service)
	if err != nil {
		return err
	}
	if services == nil {
		service.logger.Info("compose file not found, skip service check")
	} else {
		service.logger.Info(fmt.Sprintf("compose services: %v", strings.Join(services, ", ")))
	}
	_, err = service.loadManifest()
	return err
}

func (service project) loadManifest() (model.Manifest, error) {
	image := service.config.Image
	manifest, err := service.manifestLoader.Load(image.LockFile, image.ProjectFile)
	if err != nil {
		return model.Manifest{}, err
	}
	service.logger.Info(fmt.Sprintf(
		"manifest %v: %v locked packages, %v declared dependencies",
		manifest.Digest.String(), len(manifest.Packages), len(manifest.Dependencies),
	))
	return manifest, nil
}
