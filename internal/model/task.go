package model

import "time"

// Task is a household chore. AssignedTo references a User by name; the
// weekly rotation moves it to the next member in join order. Streak counts
// consecutive completion cycles and only changes through the points ledger,
// never through rotation.
type Task struct {
	ID         string    `json:"id"`
	WGID       string    `json:"wg_id"`
	Title      string    `json:"title"`
	AssignedTo string    `json:"assigned_to"`
	Completed  bool      `json:"completed"`
	Streak     int       `json:"streak"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  int64     `json:"updated_at"`
}
