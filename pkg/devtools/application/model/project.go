package model

type Compose struct {
	Executable []string
	File       string
}

type Project struct {
	Compose Compose
	Service string
	Manage  []string
	Image   Image
	// Tasks declared in the project config in addition to the built-in ones.
	Tasks []Task
}
