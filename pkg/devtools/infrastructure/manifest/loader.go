package manifest

import (
	// registers sha256 for go-digest
	_ "crypto/sha256"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/tss-calculator/devtools/pkg/devtools/application/model"
)

var (
	ErrManifestUnreadable = errors.New("manifest is missing or unreadable")
	ErrManifestInvalid    = errors.New("manifest is invalid")
	ErrManifestMismatch   = errors.New("manifest dependencies are not pinned in lock file")
)

const interpreterConstraint = "python"

var separators = regexp.MustCompile(`[-_.]+`)

// Load reads the lock file and the project descriptor and checks that every declared dependency is pinned.
func Load(lockPath, projectPath string) (model.Manifest, error) {
	lockBody, err := readFile(lockPath)
	if err != nil {
		return model.Manifest{}, err
	}
	projectBody, err := readFile(projectPath)
	if err != nil {
		return model.Manifest{}, err
	}

	packages, err := lockedPackages(lockPath, lockBody)
	if err != nil {
		return model.Manifest{}, err
	}
	dependencies, err := declaredDependencies(projectPath, projectBody)
	if err != nil {
		return model.Manifest{}, err
	}
	err = assertPinned(dependencies, packages)
	if err != nil {
		return model.Manifest{}, err
	}

	digester := digest.Canonical.Digester()
	digester.Hash().Write(lockBody)
	digester.Hash().Write(projectBody)

	return model.Manifest{
		LockFile:     lockPath,
		ProjectFile:  projectPath,
		Packages:     packages,
		Dependencies: dependencies,
		Digest:       digester.Digest(),
	}, nil
}

// NormalizeName applies PEP 503 package name normalization.
func NormalizeName(name string) string {
	return separators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

func readFile(path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrManifestUnreadable, "%v: %v", path, err)
	}
	return body, nil
}

func lockedPackages(path string, body []byte) ([]model.Package, error) {
	tree, err := toml.LoadBytes(body)
	if err != nil {
		return nil, errors.Wrapf(ErrManifestInvalid, "%v: %v", path, err)
	}
	var tables []*toml.Tree
	switch entries := tree.Get("package").(type) {
	case nil:
	case []*toml.Tree:
		tables = entries
	// a lock without dependencies carries "package = []"
	case []interface{}:
		if len(entries) > 0 {
			return nil, errors.Wrapf(ErrManifestInvalid, "%v: package entries must be tables", path)
		}
	default:
		return nil, errors.Wrapf(ErrManifestInvalid, "%v: package must be an array of tables", path)
	}
	packages := make([]model.Package, 0, len(tables))
	for _, table := range tables {
		name, _ := table.Get("name").(string)
		version, _ := table.Get("version").(string)
		if name == "" || version == "" {
			return nil, errors.Wrapf(ErrManifestInvalid, "%v: package entry without name or version", path)
		}
		packages = append(packages, model.Package{Name: name, Version: version})
	}
	return packages, nil
}

func declaredDependencies(path string, body []byte) ([]string, error) {
	tree, err := toml.LoadBytes(body)
	if err != nil {
		return nil, errors.Wrapf(ErrManifestInvalid, "%v: %v", path, err)
	}
	poetry, ok := tree.Get("tool.poetry").(*toml.Tree)
	if !ok {
		return nil, errors.Wrapf(ErrManifestInvalid, "%v: no [tool.poetry] section", path)
	}

	seen := make(map[string]struct{})
	collect := func(section interface{}) {
		table, ok := section.(*toml.Tree)
		if !ok {
			return
		}
		for _, key := range table.Keys() {
			if NormalizeName(key) == interpreterConstraint {
				continue
			}
			seen[NormalizeName(key)] = struct{}{}
		}
	}
	collect(poetry.Get("dependencies"))
	collect(poetry.Get("dev-dependencies"))
	if groups, ok := poetry.Get("group").(*toml.Tree); ok {
		for _, group := range groups.Keys() {
			if table, ok := groups.Get(group).(*toml.Tree); ok {
				collect(table.Get("dependencies"))
			}
		}
	}

	dependencies := make([]string, 0, len(seen))
	for name := range seen {
		dependencies = append(dependencies, name)
	}
	sort.Strings(dependencies)
	return dependencies, nil
}

func assertPinned(dependencies []string, packages []model.Package) error {
	pinned := make(map[string]struct{}, len(packages))
	for _, p := range packages {
		pinned[NormalizeName(p.Name)] = struct{}{}
	}
	var missing []string
	for _, dependency := range dependencies {
		if _, ok := pinned[dependency]; !ok {
			missing = append(missing, dependency)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrManifestMismatch, "%v", strings.Join(missing, ", "))
	}
	return nil
}

func NewLoader() *Loader {
	return &Loader{}
}

type Loader struct{}

func (l *Loader) Load(lockPath, projectPath string) (model.Manifest, error) {
	return Load(lockPath, projectPath)
}
