package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"planline/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

const projectCols = `id, name, progress, priority, COALESCE(start_date,'') AS start_date, end_date, created_at`

func scanProject(scan func(dest ...any) error) (domain.Project, error) {
	var p domain.Project
	err := scan(&p.ID, &p.Name, &p.Progress, &p.Priority, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

func (r Repo) InsertProject(ctx context.Context, tx *sql.Tx, p domain.Project) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects(id,name,progress,priority,start_date,end_date,created_at) VALUES (?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Progress, p.Priority, nullable(p.StartDate), p.EndDate, p.CreatedAt)
	return err
}

func (r Repo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE id=?`, id)
	return scanProject(row.Scan)
}

func (r Repo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+projectCols+` FROM projects ORDER BY end_date, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// ProjectsDueInMonth is the projects feed for one calendar month: every
// project whose end date falls inside it.
func (r Repo) ProjectsDueInMonth(ctx context.Context, year int, month int) ([]domain.Project, error) {
	lo, hi := monthBounds(year, month)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+projectCols+` FROM projects WHERE substr(end_date,1,10) >= ? AND substr(end_date,1,10) <= ? ORDER BY end_date, created_at`, lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

const taskCols = `id, project_id, parent_id, title, COALESCE(description,'') AS description, status, priority, due_date, assignee_ids_json, created_at, updated_at`

func scanTask(scan func(dest ...any) error) (domain.Task, error) {
	var t domain.Task
	var projectID, parentID, assignees sql.NullString
	err := scan(&t.ID, &projectID, &parentID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &assignees, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	if projectID.Valid {
		t.ProjectID = &projectID.String
	}
	if parentID.Valid {
		t.ParentID = &parentID.String
	}
	if assignees.Valid && assignees.String != "" {
		if err := json.Unmarshal([]byte(assignees.String), &t.AssigneeIDs); err != nil {
			return t, fmt.Errorf("task %s: assignee_ids_json: %w", t.ID, err)
		}
	}
	return t, nil
}

func (r Repo) InsertTask(ctx context.Context, tx *sql.Tx, t domain.Task) error {
	assignees, err := marshalStringSlice(t.AssigneeIDs)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO tasks(id,project_id,parent_id,title,description,status,priority,due_date,assignee_ids_json,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, nullablePtr(t.ProjectID), nullablePtr(t.ParentID), t.Title, nullable(t.Description), t.Status, t.Priority, t.DueDate, assignees, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id=?`, id)
	return scanTask(row.Scan)
}

// TaskFilters narrow ListTasks; zero values mean "no constraint".
type TaskFilters struct {
	ProjectID  string
	ParentID   string
	Status     string
	AssigneeID string
}

func (r Repo) ListTasks(ctx context.Context, f TaskFilters) ([]domain.Task, error) {
	query := `SELECT ` + taskCols + ` FROM tasks`
	var (
		clauses []string
		args    []any
	)
	if f.ProjectID != "" {
		clauses = append(clauses, "project_id=?")
		args = append(args, f.ProjectID)
	}
	if f.ParentID != "" {
		clauses = append(clauses, "parent_id=?")
		args = append(args, f.ParentID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.AssigneeID != "" {
		clauses = append(clauses, "assignee_ids_json LIKE ?")
		args = append(args, `%"`+f.AssigneeID+`"%`)
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY due_date, created_at`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// TasksDueInMonth is the flat tasks+subtasks feed for one calendar month.
func (r Repo) TasksDueInMonth(ctx context.Context, year int, month int) ([]domain.Task, error) {
	lo, hi := monthBounds(year, month)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE substr(due_date,1,10) >= ? AND substr(due_date,1,10) <= ? ORDER BY due_date, created_at`, lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// OverdueOpenTasks returns tasks due strictly before the given day that are
// not in a terminal status; these are the carry-forward candidates the
// calendar injects on top of the month feed when the month starts on or
// after today.
func (r Repo) OverdueOpenTasks(ctx context.Context, before string) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE substr(due_date,1,10) < ? AND status NOT IN (?,?,?) ORDER BY due_date, created_at`,
		before, domain.StatusCompleted, domain.StatusApproved, domain.StatusClientApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

const employeeCols = `id, name, COALESCE(role,'') AS role, COALESCE(date_of_birth,'') AS date_of_birth, created_at`

func scanEmployee(scan func(dest ...any) error) (domain.Employee, error) {
	var e domain.Employee
	err := scan(&e.ID, &e.Name, &e.Role, &e.DateOfBirth, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

func (r Repo) InsertEmployee(ctx context.Context, tx *sql.Tx, e domain.Employee) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO employees(id,name,role,date_of_birth,created_at) VALUES (?,?,?,?,?)`,
		e.ID, e.Name, nullable(e.Role), nullable(e.DateOfBirth), e.CreatedAt)
	return err
}

func (r Repo) GetEmployee(ctx context.Context, id string) (domain.Employee, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+employeeCols+` FROM employees WHERE id=?`, id)
	return scanEmployee(row.Scan)
}

// ListEmployees is the birthday feed; matching against the viewed month is
// the Normalizer's job, so every employee is returned.
func (r Repo) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+employeeCols+` FROM employees ORDER BY name, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// ListEvents returns the newest change-log entries, newest first.
func (r Repo) ListEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, ts, type, entity_kind, COALESCE(entity_id,''), actor_id, payload_json FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(&ev.ID, &ev.TS, &ev.Type, &ev.EntityKind, &ev.EntityID, &ev.ActorID, &ev.Payload); err != nil {
			return nil, err
		}
		res = append(res, ev)
	}
	return res, rows.Err()
}

func monthBounds(year int, month int) (string, string) {
	lo := fmt.Sprintf("%04d-%02d-01", year, month)
	hi := fmt.Sprintf("%04d-%02d-31", year, month)
	return lo, hi
}

func marshalStringSlice(in []string) (any, error) {
	if len(in) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullablePtr(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}
