package recipe

import (
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
)

const defaultRecipe = `FROM python:{{.PythonVersion}}-slim

ENV PYTHONDONTWRITEBYTECODE=1 \
    PYTHONUNBUFFERED=1 \
    POETRY_VIRTUALENVS_CREATE=false

WORKDIR /app

RUN pip install --no-cache-dir poetry

COPY {{.LockFile}} {{.ProjectFile}} ./
RUN poetry install --no-interaction --no-ansi --no-root

LABEL {{.DigestLabel}}="{{.Digest}}"

COPY . .
`

var defaultRecipeTemplate = template.Must(template.New("Dockerfile").Parse(defaultRecipe))

type recipeVariables struct {
	PythonVersion string
	LockFile      string
	ProjectFile   string
	DigestLabel   string
	Digest        string
}

type Renderer interface {
	// Render returns the recipe path and a cleanup func that removes rendered files.
	Render(image model.Image, manifest model.Manifest) (string, func(), error)
}

func NewRenderer(tempDir string) Renderer {
	return &renderer{tempDir: tempDir}
}

type renderer struct {
	tempDir string
}

func (r renderer) Render(image model.Image, manifest model.Manifest) (string, func(), error) {
	if image.Recipe != "" {
		if _, err := os.Stat(image.Recipe); err == nil {
			return image.Recipe, func() {}, nil
		}
	}

	recipeFile, err := os.CreateTemp(r.tempDir, "Dockerfile.")
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to create temporary file for recipe")
	}
	cleanup := func() {
		_ = os.Remove(recipeFile.Name())
	}
	defer recipeFile.Close()

	err = defaultRecipeTemplate.Execute(recipeFile, recipeVariables{
		PythonVersion: image.PythonVersion,
		LockFile:      relativeTo(image.Context, image.LockFile),
		ProjectFile:   relativeTo(image.Context, image.ProjectFile),
		DigestLabel:   DigestLabel,
		Digest:        manifest.Digest.String(),
	})
	if err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, "failed to execute recipe template")
	}
	return recipeFile.Name(), cleanup, nil
}

// relativeTo makes path relative to the build context, since COPY sources are resolved against it.
func relativeTo(context, path string) string {
	rel, err := filepath.Rel(context, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
