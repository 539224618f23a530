package compose

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var ErrServiceNotDeclared = errors.New("service is not declared in compose file")

// DefaultFiles are looked up in order when no compose file is configured.
var DefaultFiles = []string{"compose.yaml", "compose.yml", "docker-compose.yaml", "docker-compose.yml"}

type file struct {
	Services map[string]interface{} `yaml:"services"`
}

// ResolveFile returns the configured compose file or the first default one present in the working directory.
func ResolveFile(configured string) (string, bool) {
	if configured != "" {
		_, err := os.Stat(configured)
		return configured, err == nil
	}
	for _, candidate := range DefaultFiles {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// ValidateFile checks that service is declared in the compose file at path.
func ValidateFile(path, service string) ([]string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read compose file: %v", path)
	}
	var f file
	err = yaml.Unmarshal(body, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse compose file: %v", path)
	}
	services := make([]string, 0, len(f.Services))
	for name := range f.Services {
		services = append(services, name)
	}
	sort.Strings(services)
	if _, ok := f.Services[service]; !ok {
		return services, errors.Wrapf(ErrServiceNotDeclared, "service %q in %v", service, path)
	}
	return services, nil
}

func NewFileValidator(configured string) *FileValidator {
	return &FileValidator{configured: configured}
}

type FileValidator struct {
	configured string
}

// Validate returns the services of the compose file, or nothing when no compose file can be found.
func (v *FileValidator) Validate(service string) ([]string, error) {
	path, ok := ResolveFile(v.configured)
	if !ok {
		return nil, nil
	}
	return ValidateFile(path, service)
}
