package domain

import "time"

// Priority classifies how urgently a job should be picked up.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Status tracks the lifecycle of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Job is a unit of work with location and priority metadata. The five team
// count fields record how many people from each team are planned on the job.
type Job struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Hal         string    `json:"hal"`
	Plaats      string    `json:"plaats"`
	Fase        string    `json:"fase"`
	TekMerk     string    `json:"tekMerk"`
	Priority    Priority  `json:"priority"`
	PolDag      int       `json:"polDag"`
	PrtDag      int       `json:"prtDag"`
	Prt         int       `json:"prt"`
	Pl          int       `json:"pl"`
	Metr        int       `json:"metr"`
	Remarks     string    `json:"remarks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tasks       []*Task   `json:"tasks,omitempty"`
}

// Task is an actionable piece of a job, assigned to a team by id.
type Task struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"jobId"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assignedTo"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Job         *Job      `json:"job,omitempty"`
	Photos      []*Photo  `json:"photos,omitempty"`
	Notes       []*Note   `json:"notes,omitempty"`
}

// Photo references an image in the blob store. The binary never lives in the
// database; Path is the public access path for the stored file.
type Photo struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"taskId"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Caption      string    `json:"caption"`
	Path         string    `json:"path"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Note is a free-text annotation on a task. Notes are immutable: they can be
// created and deleted but never updated.
type Note struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the accepted status values.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
