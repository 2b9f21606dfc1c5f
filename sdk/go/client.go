package planlinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Planline HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Item is one calendar entry (partial API model).
type Item struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Day         string `json:"day"`
	Status      string `json:"status,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	Carried     bool   `json:"carried,omitempty"`
	OriginalDay string `json:"original_day,omitempty"`
}

// GridCell is one capped day cell of the month grid.
type GridCell struct {
	Date          string `json:"date"`
	Items         []Item `json:"items"`
	OverflowCount int    `json:"overflow_count"`
	CarriedCount  int    `json:"carried_count"`
}

// MonthGrid is the month view response.
type MonthGrid struct {
	Month string     `json:"month"`
	Today string     `json:"today,omitempty"`
	Days  []GridCell `json:"days"`
}

// DayBucket is the full, uncapped view of one day.
type DayBucket struct {
	Date      string `json:"date"`
	Projects  []Item `json:"projects"`
	Tasks     []Item `json:"tasks"`
	Subtasks  []Item `json:"subtasks"`
	Birthdays []Item `json:"birthdays"`
}

// Stream is the flat month listing.
type Stream struct {
	Month string `json:"month"`
	Items []Item `json:"items"`
}

// Task represents the API task model (partial).
type Task struct {
	ID        string  `json:"id"`
	ProjectID *string `json:"project_id"`
	ParentID  *string `json:"parent_id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	DueDate   string  `json:"due_date"`
}

// Event represents a log entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id"`
	EntityKind string         `json:"entity_kind"`
	Payload    map[string]any `json:"payload"`
}

// Filter holds the calendar query parameters; the zero value applies none.
type Filter struct {
	Types     []string
	Assignee  string
	Assignees []string
	Projects  []string
	Search    string
	Range     string
	From      string
	To        string
	Mine      bool
}

func (f Filter) query() string {
	v := url.Values{}
	if len(f.Types) > 0 {
		v.Set("types", strings.Join(f.Types, ","))
	}
	if f.Assignee != "" {
		v.Set("assignee", f.Assignee)
	}
	if len(f.Assignees) > 0 {
		v.Set("assignees", strings.Join(f.Assignees, ","))
	}
	if len(f.Projects) > 0 {
		v.Set("projects", strings.Join(f.Projects, ","))
	}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.Range != "" {
		v.Set("range", f.Range)
	}
	if f.From != "" {
		v.Set("from", f.From)
	}
	if f.To != "" {
		v.Set("to", f.To)
	}
	if f.Mine {
		v.Set("mine", "true")
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// MonthGrid fetches the capped month grid.
func (c *Client) MonthGrid(ctx context.Context, year, month int, f Filter) (MonthGrid, error) {
	var resp MonthGrid
	endpoint := fmt.Sprintf("v0/calendar/%d/%d%s", year, month, f.query())
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Day fetches the uncapped bucket for one day of the month.
func (c *Client) Day(ctx context.Context, year, month, day int, f Filter) (DayBucket, error) {
	var resp DayBucket
	endpoint := fmt.Sprintf("v0/calendar/%d/%d/days/%d%s", year, month, day, f.query())
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Stream fetches the flat month listing.
func (c *Client) Stream(ctx context.Context, year, month int, f Filter) (Stream, error) {
	var resp Stream
	endpoint := fmt.Sprintf("v0/calendar/%d/%d/stream%s", year, month, f.query())
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// CreateTask creates a task due on dueDate (YYYY-MM-DD).
func (c *Client) CreateTask(ctx context.Context, title, dueDate string) (Task, error) {
	body := map[string]any{
		"title":    title,
		"due_date": dueDate,
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, "v0/tasks", body, &resp)
	return resp, err
}

// Events returns recent events, newest first.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	endpoint := "v0/events"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
