package entity

import "time"

// Task is one objective handed to the agent loop.
type Task struct {
	ID          string
	Description string
	StartedAt   time.Time
}

type TaskResult struct {
	TaskID      string
	FinalAnswer string
	Iterations  int
	Duration    time.Duration
}
