package server

import (
	"fmt"
	"strings"
	"time"

	"planline/internal/calendar"
)

type CreateProjectRequest struct {
	ID        *string `json:"id,omitempty"`
	Name      string  `json:"name"`
	Progress  int     `json:"progress,omitempty" minimum:"0" maximum:"100"`
	Priority  string  `json:"priority,omitempty" enum:"low,medium,high"`
	StartDate string  `json:"start_date,omitempty" format:"date"`
	EndDate   string  `json:"end_date" format:"date"`
}

type CreateTaskRequest struct {
	ID          *string  `json:"id,omitempty"`
	ProjectID   *string  `json:"project_id,omitempty"`
	ParentID    *string  `json:"parent_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty" enum:"todo,in-progress,on-review,on-hold,re-work,approved,client-approved,completed"`
	Priority    string   `json:"priority,omitempty" enum:"low,medium,high"`
	DueDate     string   `json:"due_date" format:"date"`
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
}

type CreateEmployeeRequest struct {
	ID          *string `json:"id,omitempty"`
	Name        string  `json:"name"`
	Role        string  `json:"role,omitempty"`
	DateOfBirth string  `json:"date_of_birth,omitempty" format:"date"`
}

type CreateAPIKeyRequest struct {
	Name string `json:"name,omitempty"`
}

type APIKeyResponse struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	Name      string `json:"name,omitempty"`
	Key       string `json:"key"`
	CreatedAt string `json:"created_at"`
}

type DevLoginRequest struct {
	ActorID string `json:"actor_id"`
}

type DevLoginResponse struct {
	Token string `json:"token"`
}

// ItemResponse mirrors calendar.Item with day fields as YYYY-MM-DD strings.
type ItemResponse struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind" enum:"project,task,subtask,birthday"`
	Title       string   `json:"title"`
	Day         string   `json:"day" format:"date"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Progress    int      `json:"progress,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	ProjectName string   `json:"project_name,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	ParentTitle string   `json:"parent_title,omitempty"`
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
	EmployeeID  string   `json:"employee_id,omitempty"`

	Carried        bool   `json:"carried,omitempty"`
	OriginalDay    string `json:"original_day,omitempty" format:"date"`
	CarriedToToday bool   `json:"carried_to_today,omitempty"`
	CarriedTo      string `json:"carried_to,omitempty" format:"date"`
}

type DayBucketResponse struct {
	Date      string         `json:"date" format:"date"`
	Projects  []ItemResponse `json:"projects"`
	Tasks     []ItemResponse `json:"tasks"`
	Subtasks  []ItemResponse `json:"subtasks"`
	Birthdays []ItemResponse `json:"birthdays"`
}

type GridCellResponse struct {
	Date          string         `json:"date" format:"date"`
	Items         []ItemResponse `json:"items"`
	OverflowCount int            `json:"overflow_count"`
	CarriedCount  int            `json:"carried_count"`
}

type MonthResponse struct {
	Month string             `json:"month" example:"2024-03"`
	Today string             `json:"today,omitempty" format:"date"`
	Days  []GridCellResponse `json:"days"`
}

type StreamResponse struct {
	Month string         `json:"month" example:"2024-03"`
	Items []ItemResponse `json:"items"`
}

const dayLayout = "2006-01-02"

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dayLayout)
}

func itemResponse(it calendar.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID,
		Kind:           string(it.Kind),
		Title:          it.Title,
		Day:            formatDay(it.Day),
		Status:         it.Status,
		Priority:       it.Priority,
		Progress:       it.Progress,
		ProjectID:      it.ProjectID,
		ProjectName:    it.ProjectName,
		ParentID:       it.ParentID,
		ParentTitle:    it.ParentTitle,
		AssigneeIDs:    it.AssigneeIDs,
		EmployeeID:     it.EmployeeID,
		Carried:        it.Carried,
		OriginalDay:    formatDay(it.OriginalDay),
		CarriedToToday: it.CarriedToToday,
		CarriedTo:      formatDay(it.CarriedTo),
	}
}

func mapItems(items []calendar.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse(it))
	}
	return out
}

func bucketResponse(b calendar.DayBucket) DayBucketResponse {
	return DayBucketResponse{
		Date:      formatDay(b.Date),
		Projects:  mapItems(b.Projects),
		Tasks:     mapItems(b.Tasks),
		Subtasks:  mapItems(b.Subtasks),
		Birthdays: mapItems(b.Birthdays),
	}
}

func cellResponse(c calendar.GridCell) GridCellResponse {
	return GridCellResponse{
		Date:          formatDay(c.Date),
		Items:         mapItems(c.Items),
		OverflowCount: c.OverflowCount,
		CarriedCount:  c.CarriedCount,
	}
}

// FilterParams are the query parameters shared by the calendar endpoints.
type FilterParams struct {
	Types     string `query:"types" doc:"comma-separated kinds to include (tasks,subtasks,projects,birthdays); empty means all"`
	Assignee  string `query:"assignee" doc:"single assignee filter"`
	Assignees string `query:"assignees" doc:"comma-separated assignee ids"`
	Projects  string `query:"projects" doc:"comma-separated project ids"`
	Q         string `query:"q" doc:"case-insensitive search term"`
	Range     string `query:"range" doc:"date preset: all, today, yesterday, week, month, custom" enum:"all,today,yesterday,week,month,custom,"`
	From      string `query:"from" doc:"custom range start (YYYY-MM-DD)"`
	To        string `query:"to" doc:"custom range end (YYYY-MM-DD)"`
	Mine      bool   `query:"mine" doc:"filter to the authenticated actor's items"`
}

func (p FilterParams) filterState(actorID string) (calendar.FilterState, error) {
	f := calendar.DefaultFilter()
	if p.Types != "" {
		f.Types = calendar.TypeToggles{}
		for _, t := range splitCSV(p.Types) {
			switch t {
			case "tasks":
				f.Types.Tasks = true
			case "subtasks":
				f.Types.Subtasks = true
			case "projects":
				f.Types.Projects = true
			case "birthdays":
				f.Types.Birthdays = true
			default:
				return f, fmt.Errorf("invalid type %q", t)
			}
		}
	}
	if p.Mine {
		f = f.WithAssignee(actorID)
	} else if p.Assignee != "" {
		f = f.WithAssignee(p.Assignee)
	} else {
		f.AssigneeIDs = splitCSV(p.Assignees)
	}
	f.ProjectIDs = splitCSV(p.Projects)
	f.Search = p.Q
	if p.Range != "" {
		f.Preset = calendar.DatePreset(p.Range)
	}
	if f.Preset == calendar.PresetCustom {
		start, err := time.Parse(dayLayout, p.From)
		if err != nil {
			return f, fmt.Errorf("invalid from %q", p.From)
		}
		end, err := time.Parse(dayLayout, p.To)
		if err != nil {
			return f, fmt.Errorf("invalid to %q", p.To)
		}
		f.Custom = &calendar.DateRange{Start: start, End: end}
	}
	return f, nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
