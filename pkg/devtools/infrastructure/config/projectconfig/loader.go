package projectconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
)

// PathEnv overrides the default config file path.
const PathEnv = "DEVTOOLS_CONFIG"

const DefaultPath = "devtools.json"

type Compose struct {
	Executable []string `json:"executable,omitempty"`
	File       string   `json:"file,omitempty"`
}

type Image struct {
	Name          string   `json:"name,omitempty"`
	PythonVersion string   `json:"pythonVersion,omitempty"`
	Recipe        string   `json:"recipe,omitempty"`
	Context       string   `json:"context,omitempty"`
	Builder       []string `json:"builder,omitempty"`
	LockFile      string   `json:"lockFile,omitempty"`
	ProjectFile   string   `json:"projectFile,omitempty"`
}

type Task struct {
	Usage    string   `json:"usage,omitempty"`
	Args     []string `json:"args"`
	Attached bool     `json:"attached,omitempty"`
}

type Config struct {
	Compose Compose         `json:"compose"`
	Service string          `json:"service,omitempty"`
	Manage  []string        `json:"manage,omitempty"`
	Image   Image           `json:"image"`
	Tasks   map[string]Task `json:"tasks,omitempty"`
}

func Default() Config {
	return Config{
		Compose: Compose{
			Executable: []string{"docker-compose"},
		},
		Service: "web",
		Manage:  []string{"python", "manage.py"},
		Image: Image{
			Name:          "swapi",
			PythonVersion: "3.11",
			Recipe:        "Dockerfile",
			Context:       ".",
			Builder:       []string{"docker"},
			LockFile:      "poetry.lock",
			ProjectFile:   "pyproject.toml",
		},
	}
}

// Path returns the config path from the environment or the default one.
func Path() string {
	if path := os.Getenv(PathEnv); path != "" {
		return path
	}
	return DefaultPath
}

// Load reads the config at filePath over the defaults. A missing file yields the defaults.
func Load(filePath string) (model.Project, error) {
	config := Default()
	configBody, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return model.Project{}, errors.Wrapf(err, "failed to read config file: %v", filePath)
	}
	if err == nil {
		err = json.Unmarshal(configBody, &config)
		if err != nil {
			return model.Project{}, errors.Wrapf(err, "failed to unmarshal config: %v", filePath)
		}
	}
	err = assertConfig(config)
	if err != nil {
		return model.Project{}, err
	}
	return MapToProject(config), nil
}

func MapToProject(config Config) model.Project {
	names := make([]string, 0, len(config.Tasks))
	for name := range config.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	tasks := make([]model.Task, 0, len(names))
	for _, name := range names {
		task := config.Tasks[name]
		tasks = append(tasks, model.Task{
			Name:     name,
			Usage:    task.Usage,
			Args:     task.Args,
			Attached: task.Attached,
		})
	}

	return model.Project{
		Compose: model.Compose{
			Executable: config.Compose.Executable,
			File:       config.Compose.File,
		},
		Service: config.Service,
		Manage:  config.Manage,
		Image: model.Image{
			Name:          config.Image.Name,
			PythonVersion: config.Image.PythonVersion,
			Recipe:        config.Image.Recipe,
			Context:       config.Image.Context,
			Builder:       config.Image.Builder,
			LockFile:      config.Image.LockFile,
			ProjectFile:   config.Image.ProjectFile,
		},
		Tasks: tasks,
	}
}

func assertConfig(config Config) error {
	if len(config.Compose.Executable) == 0 {
		return errors.New("compose executable can not be empty")
	}
	if config.Service == "" {
		return errors.New("service can not be empty")
	}
	if len(config.Manage) == 0 {
		return errors.New("manage command can not be empty")
	}
	if config.Image.Name == "" {
		return errors.New("image name can not be empty")
	}
	for name, task := range config.Tasks {
		if len(task.Args) == 0 {
			return fmt.Errorf("task %v has no args", name)
		}
	}
	return nil
}
