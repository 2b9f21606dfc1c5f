package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"planline/internal/calendar"
	"planline/internal/config"
	"planline/internal/domain"
	"planline/internal/events"
	"planline/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
	Logger *log.Logger
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

const dayLayout = "2006-01-02"

// MonthView fetches the three month feeds and builds the calendar view.
// When today falls inside the viewed month, open tasks overdue from earlier
// months are added to the feed so carry-forward can re-present them.
func (e Engine) MonthView(ctx context.Context, year int, month int, filter calendar.FilterState) (*calendar.View, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("invalid year %d", year)
	}
	loc, err := e.Config.Location()
	if err != nil {
		return nil, err
	}
	m := calendar.Month{Year: year, Month: time.Month(month)}

	projects, err := e.Repo.ProjectsDueInMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	tasks, err := e.Repo.TasksDueInMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	today := calendar.DayKeyIn(loc)(e.now())
	if m.Contains(today) {
		overdue, err := e.Repo.OverdueOpenTasks(ctx, m.First(loc).Format(dayLayout))
		if err != nil {
			return nil, fmt.Errorf("fetch overdue tasks: %w", err)
		}
		tasks = append(overdue, tasks...)
	}
	employees, err := e.Repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch employees: %w", err)
	}

	src := calendar.Sources{Projects: projects, Tasks: tasks, Employees: employees}
	opts := calendar.Options{
		Now:           e.now(),
		Location:      loc,
		GridCap:       e.Config.Calendar.GridCap,
		BirthdayMatch: calendar.BirthdayMatch(e.Config.Calendar.BirthdayMatch),
		Logger:        e.Logger,
	}
	return calendar.NewView(src, m, filter, opts), nil
}

// ProjectCreateOptions are parameters for creating a project.
type ProjectCreateOptions struct {
	ID        string
	Name      string
	Progress  int
	Priority  string
	StartDate string
	EndDate   string
	ActorID   string
}

func (e Engine) CreateProject(ctx context.Context, opts ProjectCreateOptions) (domain.Project, error) {
	if opts.Name == "" {
		return domain.Project{}, errors.New("name is required")
	}
	if err := validateDay("end_date", opts.EndDate); err != nil {
		return domain.Project{}, err
	}
	if opts.StartDate != "" {
		if err := validateDay("start_date", opts.StartDate); err != nil {
			return domain.Project{}, err
		}
	}
	if opts.Priority == "" {
		opts.Priority = "medium"
	}
	if !domain.ValidPriority(opts.Priority) {
		return domain.Project{}, fmt.Errorf("invalid priority %q", opts.Priority)
	}
	if opts.Progress < 0 || opts.Progress > 100 {
		return domain.Project{}, fmt.Errorf("progress must be 0-100, got %d", opts.Progress)
	}
	p := domain.Project{
		ID:        opts.ID,
		Name:      opts.Name,
		Progress:  opts.Progress,
		Priority:  opts.Priority,
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		CreatedAt: e.now().UTC().Format(time.RFC3339),
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Project{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertProject(ctx, tx, p); err != nil {
		return domain.Project{}, fmt.Errorf("insert project: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "project.created", "project", p.ID, opts.ActorID, events.EventPayload{"name": p.Name, "end_date": p.EndDate}); err != nil {
		return domain.Project{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// TaskCreateOptions are parameters for creating a task or subtask.
type TaskCreateOptions struct {
	ID          string
	ProjectID   string
	ParentID    string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
	AssigneeIDs []string
	ActorID     string
}

func (e Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	if opts.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if err := validateDay("due_date", opts.DueDate); err != nil {
		return domain.Task{}, err
	}
	if opts.Status == "" {
		opts.Status = domain.StatusTodo
	}
	if !domain.ValidStatus(opts.Status) {
		return domain.Task{}, fmt.Errorf("invalid status %q", opts.Status)
	}
	if opts.Priority == "" {
		opts.Priority = "medium"
	}
	if !domain.ValidPriority(opts.Priority) {
		return domain.Task{}, fmt.Errorf("invalid priority %q", opts.Priority)
	}
	if opts.ProjectID != "" {
		if _, err := e.Repo.GetProject(ctx, opts.ProjectID); err != nil {
			return domain.Task{}, fmt.Errorf("project %s: %w", opts.ProjectID, err)
		}
	}
	if opts.ParentID != "" {
		parent, err := e.Repo.GetTask(ctx, opts.ParentID)
		if err != nil {
			return domain.Task{}, fmt.Errorf("parent %s: %w", opts.ParentID, err)
		}
		if parent.IsSubtask() {
			return domain.Task{}, errors.New("subtasks cannot have subtasks")
		}
		// Subtasks inherit the parent's project unless set explicitly.
		if opts.ProjectID == "" && parent.ProjectID != nil {
			opts.ProjectID = *parent.ProjectID
		}
	}
	now := e.now().UTC().Format(time.RFC3339)
	t := domain.Task{
		ID:          opts.ID,
		ProjectID:   optionalString(opts.ProjectID),
		ParentID:    optionalString(opts.ParentID),
		Title:       opts.Title,
		Description: opts.Description,
		Status:      opts.Status,
		Priority:    opts.Priority,
		DueDate:     opts.DueDate,
		AssigneeIDs: opts.AssigneeIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertTask(ctx, tx, t); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	kind := "task"
	if t.IsSubtask() {
		kind = "subtask"
	}
	if err := e.Events.Append(ctx, tx, kind+".created", kind, t.ID, opts.ActorID, events.EventPayload{"title": t.Title, "due_date": t.DueDate, "status": t.Status}); err != nil {
		return domain.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// EmployeeCreateOptions are parameters for creating an employee.
type EmployeeCreateOptions struct {
	ID          string
	Name        string
	Role        string
	DateOfBirth string
	ActorID     string
}

func (e Engine) CreateEmployee(ctx context.Context, opts EmployeeCreateOptions) (domain.Employee, error) {
	if opts.Name == "" {
		return domain.Employee{}, errors.New("name is required")
	}
	if opts.DateOfBirth != "" {
		if err := validateDay("date_of_birth", opts.DateOfBirth); err != nil {
			return domain.Employee{}, err
		}
	}
	emp := domain.Employee{
		ID:          opts.ID,
		Name:        opts.Name,
		Role:        opts.Role,
		DateOfBirth: opts.DateOfBirth,
		CreatedAt:   e.now().UTC().Format(time.RFC3339),
	}
	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Employee{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertEmployee(ctx, tx, emp); err != nil {
		return domain.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "employee.created", "employee", emp.ID, opts.ActorID, events.EventPayload{"name": emp.Name}); err != nil {
		return domain.Employee{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Employee{}, err
	}
	return emp, nil
}

// CreateAPIKey mints a key for the actor and returns the plaintext once.
func (e Engine) CreateAPIKey(ctx context.Context, actorID, name string) (string, domain.APIKey, error) {
	if actorID == "" {
		return "", domain.APIKey{}, errors.New("actor is required")
	}
	plaintext := "pl_" + uuid.NewString()
	key := domain.APIKey{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Name:      name,
		KeyHash:   repo.HashAPIKey(plaintext),
		CreatedAt: e.now().UTC().Format(time.RFC3339),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", domain.APIKey{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertAPIKey(ctx, tx, key); err != nil {
		return "", domain.APIKey{}, fmt.Errorf("insert api key: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "apikey.created", "api_key", key.ID, actorID, events.EventPayload{"name": name}); err != nil {
		return "", domain.APIKey{}, err
	}
	if err := tx.Commit(); err != nil {
		return "", domain.APIKey{}, err
	}
	return plaintext, key, nil
}

func validateDay(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := time.Parse(dayLayout, value); err != nil {
		return fmt.Errorf("%s must be YYYY-MM-DD, got %q", field, value)
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
