package model

type TaskName = string

type Task struct {
	Name  TaskName
	Usage string
	// Args are passed to the orchestration tool after its global options.
	Args []string
	// Attached tasks share the operator's terminal.
	Attached bool
	// UntilInterrupted tasks run until the operator interrupts them.
	UntilInterrupted bool
}
