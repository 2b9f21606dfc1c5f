package domain

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Progress  int    `json:"progress" minimum:"0" maximum:"100"`
	Priority  string `json:"priority" enum:"low,medium,high"`
	StartDate string `json:"start_date,omitempty" format:"date"`
	EndDate   string `json:"end_date" format:"date"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

// Task covers both tasks and subtasks; a set ParentID marks a subtask.
// A nil ProjectID marks an "extra task" that belongs to no project.
type Task struct {
	ID          string   `json:"id"`
	ProjectID   *string  `json:"project_id,omitempty"`
	ParentID    *string  `json:"parent_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status" enum:"todo,in-progress,on-review,on-hold,re-work,approved,client-approved,completed"`
	Priority    string   `json:"priority" enum:"low,medium,high"`
	DueDate     string   `json:"due_date" format:"date"`
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
	CreatedAt   string   `json:"created_at" format:"date-time"`
	UpdatedAt   string   `json:"updated_at" format:"date-time"`
}

type Employee struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty" format:"date"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

const (
	StatusTodo           = "todo"
	StatusInProgress     = "in-progress"
	StatusOnReview       = "on-review"
	StatusOnHold         = "on-hold"
	StatusReWork         = "re-work"
	StatusApproved       = "approved"
	StatusClientApproved = "client-approved"
	StatusCompleted      = "completed"
)

// TaskStatuses lists every valid task/subtask status.
var TaskStatuses = []string{
	StatusTodo, StatusInProgress, StatusOnReview, StatusOnHold,
	StatusReWork, StatusApproved, StatusClientApproved, StatusCompleted,
}

var Priorities = []string{"low", "medium", "high"}

func ValidStatus(s string) bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether a task in this status is finished work;
// carry-forward never re-presents such tasks.
func TerminalStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusApproved, StatusClientApproved:
		return true
	}
	return false
}

func (t Task) IsSubtask() bool { return t.ParentID != nil && *t.ParentID != "" }
