package model

import "github.com/opencontainers/go-digest"

type Image struct {
	Name          string
	PythonVersion string
	Recipe        string
	Context       string
	Builder       []string
	LockFile      string
	ProjectFile   string
}

type Package struct {
	Name    string
	Version string
}

type Manifest struct {
	LockFile     string
	ProjectFile  string
	Packages     []Package
	Dependencies []string
	Digest       digest.Digest
}
