package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"planline/internal/calendar"
	"planline/internal/config"
	"planline/internal/db"
	"planline/internal/engine"
	"planline/internal/migrate"
	"planline/internal/repo"
	"planline/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "pl",
	Short: "Planline CLI",
	Long: `Planline aggregates projects, tasks, subtasks and birthdays into a
month calendar, carrying overdue open tasks forward onto today.
Core concepts:
- Workspace: your .planline directory holding the database; planline.yml
  next to it configures the calendar.
- Project: a named effort with an end date; it shows up on its due day.
- Task / subtask: work items with a due date; a task with a parent is a
  subtask. Statuses run todo -> in-progress -> on-review -> ... ->
  completed (approved and client-approved also count as done).
- Carry-forward: open tasks whose due date has passed appear again on
  today's cell, badged, next to their original day.
- Filters: type toggles, assignees, projects, search and date presets
  shape every view the same way.
- Event log: diary of changes, view with 'pl log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PLANLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
}

func registerCommands() {
	rootCmd.AddCommand(monthCmd())
	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(streamCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(employeeCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(apikeyCmd())
	rootCmd.AddCommand(serveCmd())
}

// filterFlags are the shared calendar filter flags.
type filterFlags struct {
	types     []string
	assignee  string
	assignees []string
	projects  []string
	search    string
	preset    string
	from      string
	to        string
	today     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.types, "types", nil, "kinds to include (tasks,subtasks,projects,birthdays)")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "single assignee filter")
	cmd.Flags().StringSliceVar(&f.assignees, "assignees", nil, "assignee ids")
	cmd.Flags().StringSliceVar(&f.projects, "projects", nil, "project ids")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "search term")
	cmd.Flags().StringVar(&f.preset, "range", "", "date preset (all, today, yesterday, week, month, custom)")
	cmd.Flags().StringVar(&f.from, "from", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "custom range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.today, "today", "", "treat this date as today (YYYY-MM-DD)")
}

func (f *filterFlags) filterState() (calendar.FilterState, error) {
	fs := calendar.DefaultFilter()
	if len(f.types) > 0 {
		fs.Types = calendar.TypeToggles{}
		for _, t := range f.types {
			switch strings.TrimSpace(t) {
			case "tasks":
				fs.Types.Tasks = true
			case "subtasks":
				fs.Types.Subtasks = true
			case "projects":
				fs.Types.Projects = true
			case "birthdays":
				fs.Types.Birthdays = true
			default:
				return fs, fmt.Errorf("invalid type %q", t)
			}
		}
	}
	if f.assignee != "" {
		fs = fs.WithAssignee(f.assignee)
	} else {
		fs.AssigneeIDs = f.assignees
	}
	fs.ProjectIDs = f.projects
	fs.Search = f.search
	if f.preset != "" {
		fs.Preset = calendar.DatePreset(f.preset)
	}
	if fs.Preset == calendar.PresetCustom {
		start, err := time.Parse("2006-01-02", f.from)
		if err != nil {
			return fs, fmt.Errorf("invalid --from %q", f.from)
		}
		end, err := time.Parse("2006-01-02", f.to)
		if err != nil {
			return fs, fmt.Errorf("invalid --to %q", f.to)
		}
		fs.Custom = &calendar.DateRange{Start: start, End: end}
	}
	return fs, nil
}

// parseMonthArg reads an optional YYYY-MM argument, defaulting to the
// current month.
func parseMonthArg(args []string) (int, int, error) {
	if len(args) == 0 {
		now := time.Now()
		return now.Year(), int(now.Month()), nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("month must be YYYY-MM, got %q", args[0])
	}
	return t.Year(), int(t.Month()), nil
}

func monthCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show the month grid",
		Long:  "Capped cells for every day of the month, with overflow and carried badges. Defaults to the current month.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonthArg(args)
			if err != nil {
				return err
			}
			filter, err := ff.filterState()
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), ff.today, func(ctx context.Context, e engine.Engine) error {
				view, err := e.MonthView(ctx, year, month, filter)
				if err != nil {
					return err
				}
				grid := view.Grid()
				if viper.GetBool("json") {
					return printJSON(grid)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Date", "Items", "Overflow", "Carried"})
				for _, cell := range grid {
					if cell.OverflowCount == 0 && cell.CarriedCount == 0 && len(cell.Items) == 0 {
						continue
					}
					var titles []string
					for _, it := range cell.Items {
						titles = append(titles, fmt.Sprintf("[%s] %s", it.Kind, it.Title))
					}
					tw.AppendRow(table.Row{
						cell.Date.Format("2006-01-02"),
						strings.Join(titles, "; "),
						cell.OverflowCount,
						cell.CarriedCount,
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	ff.register(cmd)
	return cmd
}

func dayCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "Show one day in full",
		Long:  "Uncapped, filtered, carry-resolved items for a single day, grouped by kind.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("day must be YYYY-MM-DD, got %q", args[0])
			}
			filter, err := ff.filterState()
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), ff.today, func(ctx context.Context, e engine.Engine) error {
				view, err := e.MonthView(ctx, date.Year(), int(date.Month()), filter)
				if err != nil {
					return err
				}
				bucket := view.ItemsForDay(date.Day())
				if viper.GetBool("json") {
					return printJSON(bucket)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Kind", "Title", "Status", "Carried from"})
				for _, group := range [][]calendar.Item{bucket.Projects, bucket.Tasks, bucket.Subtasks, bucket.Birthdays} {
					for _, it := range group {
						from := ""
						if it.Carried {
							from = it.OriginalDay.Format("2006-01-02")
						}
						tw.AppendRow(table.Row{it.Kind, it.Title, it.Status, from})
					}
				}
				tw.Render()
				return nil
			})
		},
	}
	ff.register(cmd)
	return cmd
}

func streamCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "stream [YYYY-MM]",
		Short: "Flat month stream",
		Long:  "Every surviving item of the month as one flat list ordered by day. Defaults to the current month.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonthArg(args)
			if err != nil {
				return err
			}
			filter, err := ff.filterState()
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), ff.today, func(ctx context.Context, e engine.Engine) error {
				view, err := e.MonthView(ctx, year, month, filter)
				if err != nil {
					return err
				}
				items := view.ItemsForRange()
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Date", "Kind", "Title", "Status", "Carried"})
				for _, it := range items {
					tw.AppendRow(table.Row{it.Day.Format("2006-01-02"), it.Kind, it.Title, it.Status, it.Carried})
				}
				tw.Render()
				return nil
			})
		},
	}
	ff.register(cmd)
	return cmd
}

func projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage projects"}
	prj.AddCommand(projectAddCmd())
	prj.AddCommand(projectListCmd())
	prj.AddCommand(projectShowCmd())
	return prj
}

func projectAddCmd() *cobra.Command {
	var opts engine.ProjectCreateOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create project",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), "", func(ctx context.Context, e engine.Engine) error {
				p, err := e.CreateProject(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "project id (optional, UUID if omitted)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "name")
	cmd.Flags().IntVar(&opts.Progress, "progress", 0, "progress percent (0-100)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "priority (low, medium, high)")
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func projectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListProjects(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Progress", "Priority", "End"})
				for _, p := range items {
					tw.AppendRow(table.Row{p.ID, p.Name, p.Progress, p.Priority, p.EndDate})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func projectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				p, err := r.GetProject(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	return cmd
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  "Tasks are the work items. Give one a --parent to make it a subtask; subtasks inherit the parent's project unless told otherwise.",
	}
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskListCmd())
	task.AddCommand(taskGetCmd())
	return task
}

func taskAddCmd() *cobra.Command {
	var opts engine.TaskCreateOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task or subtask",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), "", func(ctx context.Context, e engine.Engine) error {
				t, err := e.CreateTask(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "task id (optional, UUID if omitted)")
	cmd.Flags().StringVar(&opts.ProjectID, "project", "", "project id")
	cmd.Flags().StringVar(&opts.ParentID, "parent", "", "parent task id (makes this a subtask)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "status (defaults to todo)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "priority (low, medium, high)")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&opts.AssigneeIDs, "assignee-id", nil, "assignee id (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func taskListCmd() *cobra.Command {
	var f repo.TaskFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				tasks, err := r.ListTasks(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Due", "Project", "Parent"})
				for _, t := range tasks {
					project := ""
					if t.ProjectID != nil {
						project = *t.ProjectID
					}
					parent := ""
					if t.ParentID != nil {
						parent = *t.ParentID
					}
					tw.AppendRow(table.Row{t.ID, t.Title, t.Status, t.DueDate, project, parent})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.ProjectID, "project", "", "project filter")
	cmd.Flags().StringVar(&f.ParentID, "parent", "", "parent task filter")
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter")
	cmd.Flags().StringVar(&f.AssigneeID, "assignee-id", "", "assignee filter")
	return cmd
}

func taskGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				t, err := r.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	return cmd
}

func employeeCmd() *cobra.Command {
	emp := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees",
		Long:  "Employees supply assignee ids and, via date of birth, the birthday entries on the calendar.",
	}
	emp.AddCommand(employeeAddCmd())
	emp.AddCommand(employeeListCmd())
	return emp
}

func employeeAddCmd() *cobra.Command {
	var opts engine.EmployeeCreateOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), "", func(ctx context.Context, e engine.Engine) error {
				emp, err := e.CreateEmployee(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(emp)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "employee id (optional, UUID if omitted)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "name")
	cmd.Flags().StringVar(&opts.Role, "role", "", "role")
	cmd.Flags().StringVar(&opts.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func employeeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListEmployees(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Role", "Born"})
				for _, emp := range items {
					tw.AppendRow(table.Row{emp.ID, emp.Name, emp.Role, emp.DateOfBirth})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
		Long:  "planline.yml holds the calendar settings: timezone, grid cap and birthday matching mode.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show loaded config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate workspace config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err == nil {
				err = cfg.Validate()
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "The diary of everything that happened: created projects, tasks, employees and keys.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				events, err := r.ListEvents(ctx, n)
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	return cmd
}

func apikeyCmd() *cobra.Command {
	key := &cobra.Command{Use: "apikey", Short: "Manage API keys"}
	key.AddCommand(apikeyCreateCmd())
	return key
}

func apikeyCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Mint an API key for the current actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), "", func(ctx context.Context, e engine.Engine) error {
				plaintext, k, err := e.CreateAPIKey(ctx, viper.GetString("actor-id"), name)
				if err != nil {
					return err
				}
				out := map[string]any{"id": k.ID, "actor_id": k.ActorID, "name": k.Name, "key": plaintext}
				if viper.GetBool("json") {
					return printJSON(out)
				}
				fmt.Printf("API key (store it now, it is not shown again): %s\n", plaintext)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "key label")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			cfg, err := config.Load(workspace)
			if err != nil {
				return err
			}
			e := engine.New(conn, cfg)
			secret := os.Getenv("PLANLINE_JWT_SECRET")
			if secret == "" {
				secret = cfg.Server.JWTSecret
			}
			if secret == "" {
				return fmt.Errorf("PLANLINE_JWT_SECRET (or server.jwt_secret) is required for bearer auth")
			}
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}
			handler, err := server.New(server.Config{
				Engine:   e,
				BasePath: basePath,
				Auth:     server.AuthConfig{JWTSecret: secret},
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Planline API on http://%s%s (OpenAPI at %s/openapi.json)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (defaults to config)")
	return cmd
}

// --- helpers ---

// withEngine opens the workspace database, migrates it and hands a ready
// engine to fn. A non-empty today pins the engine's clock to that day.
func withEngine(ctx context.Context, today string, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	e := engine.New(conn, cfg)
	if today != "" {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		t, err := time.ParseInLocation("2006-01-02", today, loc)
		if err != nil {
			return fmt.Errorf("invalid --today %q", today)
		}
		e.Now = func() time.Time { return t }
	}
	return fn(ctx, e)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
