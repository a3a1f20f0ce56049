package domain

// JobInput carries the client-supplied fields for creating a job. Validate
// fills in defaults and returns a ValidationError listing every violation.
type JobInput struct {
	OrderNumber string   `json:"orderNumber"`
	Hal         string   `json:"hal"`
	Plaats      string   `json:"plaats"`
	Fase        string   `json:"fase"`
	TekMerk     string   `json:"tekMerk"`
	Priority    Priority `json:"priority"`
	PolDag      int      `json:"polDag"`
	PrtDag      int      `json:"prtDag"`
	Prt         int      `json:"prt"`
	Pl          int      `json:"pl"`
	Metr        int      `json:"metr"`
	Remarks     string   `json:"remarks"`
}

func (in *JobInput) Validate() error {
	errs := fieldErrors{}
	if in.OrderNumber == "" {
		errs.add("orderNumber", "is required")
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	} else if !ValidPriority(in.Priority) {
		errs.add("priority", "must be one of low, normal, high")
	}
	for field, count := range map[string]int{
		"polDag": in.PolDag,
		"prtDag": in.PrtDag,
		"prt":    in.Prt,
		"pl":     in.Pl,
		"metr":   in.Metr,
	} {
		if count < 0 {
			errs.add(field, "must not be negative")
		}
	}
	return errs.err()
}

// JobUpdate carries a partial job update; nil fields are left unchanged.
type JobUpdate struct {
	OrderNumber *string   `json:"orderNumber"`
	Hal         *string   `json:"hal"`
	Plaats      *string   `json:"plaats"`
	Fase        *string   `json:"fase"`
	TekMerk     *string   `json:"tekMerk"`
	Priority    *Priority `json:"priority"`
	PolDag      *int      `json:"polDag"`
	PrtDag      *int      `json:"prtDag"`
	Prt         *int      `json:"prt"`
	Pl          *int      `json:"pl"`
	Metr        *int      `json:"metr"`
	Remarks     *string   `json:"remarks"`
}

func (u *JobUpdate) Validate() error {
	errs := fieldErrors{}
	if u.OrderNumber != nil && *u.OrderNumber == "" {
		errs.add("orderNumber", "must not be empty")
	}
	if u.Priority != nil && !ValidPriority(*u.Priority) {
		errs.add("priority", "must be one of low, normal, high")
	}
	for field, count := range map[string]*int{
		"polDag": u.PolDag,
		"prtDag": u.PrtDag,
		"prt":    u.Prt,
		"pl":     u.Pl,
		"metr":   u.Metr,
	} {
		if count != nil && *count < 0 {
			errs.add(field, "must not be negative")
		}
	}
	return errs.err()
}

// Apply copies the set fields of the update onto job.
func (u *JobUpdate) Apply(job *Job) {
	if u.OrderNumber != nil {
		job.OrderNumber = *u.OrderNumber
	}
	if u.Hal != nil {
		job.Hal = *u.Hal
	}
	if u.Plaats != nil {
		job.Plaats = *u.Plaats
	}
	if u.Fase != nil {
		job.Fase = *u.Fase
	}
	if u.TekMerk != nil {
		job.TekMerk = *u.TekMerk
	}
	if u.Priority != nil {
		job.Priority = *u.Priority
	}
	if u.PolDag != nil {
		job.PolDag = *u.PolDag
	}
	if u.PrtDag != nil {
		job.PrtDag = *u.PrtDag
	}
	if u.Prt != nil {
		job.Prt = *u.Prt
	}
	if u.Pl != nil {
		job.Pl = *u.Pl
	}
	if u.Metr != nil {
		job.Metr = *u.Metr
	}
	if u.Remarks != nil {
		job.Remarks = *u.Remarks
	}
}

// TaskInput carries the client-supplied fields for creating a task.
type TaskInput struct {
	JobID       int64  `json:"jobId"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Status      Status `json:"status"`
}

func (in *TaskInput) Validate() error {
	errs := fieldErrors{}
	if in.JobID == 0 {
		errs.add("jobId", "is required")
	}
	if in.Description == "" {
		errs.add("description", "is required")
	}
	if in.Status == "" {
		in.Status = StatusPending
	} else if !ValidStatus(in.Status) {
		errs.add("status", "must be one of pending, in-progress, completed")
	}
	return errs.err()
}

// TaskUpdate carries a partial task update; nil fields are left unchanged.
// A status-only update is the common case for team members in the field.
type TaskUpdate struct {
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Status      *Status `json:"status"`
}

func (u *TaskUpdate) Validate() error {
	errs := fieldErrors{}
	if u.Description != nil && *u.Description == "" {
		errs.add("description", "must not be empty")
	}
	if u.Status != nil && !ValidStatus(*u.Status) {
		errs.add("status", "must be one of pending, in-progress, completed")
	}
	return errs.err()
}

// Apply copies the set fields of the update onto task.
func (u *TaskUpdate) Apply(task *Task) {
	if u.Description != nil {
		task.Description = *u.Description
	}
	if u.AssignedTo != nil {
		task.AssignedTo = *u.AssignedTo
	}
	if u.Status != nil {
		task.Status = *u.Status
	}
}

// NoteInput carries the content for a new note.
type NoteInput struct {
	Content string `json:"content"`
}

func (in *NoteInput) Validate() error {
	errs := fieldErrors{}
	if in.Content == "" {
		errs.add("content", "is required")
	}
	return errs.err()
}
