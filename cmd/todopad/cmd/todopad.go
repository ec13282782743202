package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"todopad/backend"
	_ "todopad/backend/memory"
	_ "todopad/backend/rest"
	_ "todopad/backend/sqlstore"
	"todopad/internal/config"
	"todopad/internal/credentials"
	"todopad/internal/exitcode"
	"todopad/internal/shutdown"
	"todopad/internal/tasklist"
	"todopad/internal/tui"
	"todopad/internal/utils"
)

// Version is set at build time
var Version = "dev"

// Result codes for JSON output
const (
	ResultActionCompleted = "ACTION_COMPLETED"
	ResultInfoOnly        = "INFO_ONLY"
	ResultError           = "ERROR"
)

// maxParallelInserts bounds the concurrent inserts issued by add
const maxParallelInserts = 4

// Config holds settings injected by the caller (tests mostly)
type Config struct {
	ConfigPath string              // config file; XDG default when empty
	Verbose    bool                // force debug logging
	Stdin      io.Reader           // prompt input; os.Stdin when nil
	Store      backend.Store       // bypasses the store registry when set
	Keyring    credentials.Keyring // system keyring when nil
}

func (c *Config) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

// Execute runs the CLI with the given arguments and IO writers and returns
// the process exit code.
func Execute(args []string, stdout, stderr io.Writer, cfg *Config) int {
	rootCmd := NewTodoPad(stdout, cfg)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		code := exitcode.For(err)
		if containsJSONFlag(args) {
			outputErrorJSON(err, code, stdout)
		} else {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
		}
		return code
	}
	return exitcode.Success
}

// containsJSONFlag checks if args contain --json flag
func containsJSONFlag(args []string) bool {
	return slices.Contains(args, "--json")
}

// NewTodoPad creates the root command with injectable IO
func NewTodoPad(stdout io.Writer, cfg *Config) *cobra.Command {
	if cfg == nil {
		cfg = &Config{}
	}

	cmd := &cobra.Command{
		Use:     "todopad",
		Short:   "A single-list to-do manager",
		Long:    "todopad keeps one to-do list in a hosted table, a local database or memory.\nRun without arguments to open the interactive list.",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, stdout, cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("backend", "b", "", "Store to use (memory, rest, sqlite, mysql)")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file")

	cmd.AddCommand(newListCmd(stdout, cfg))
	cmd.AddCommand(newAddCmd(stdout, cfg))
	cmd.AddCommand(newToggleCmd(stdout, cfg))
	cmd.AddCommand(newEditCmd(stdout, cfg))
	cmd.AddCommand(newDeleteCmd(stdout, cfg))
	cmd.AddCommand(newCredentialsCmd(stdout, cfg))
	cmd.AddCommand(newConfigCmd(stdout, cfg))

	return cmd
}

// session is an opened store and its controller for one command run
type session struct {
	cfg  *config.Config
	ctrl *tasklist.Controller
	mgr  *shutdown.Manager
	stop func()
}

// openSession loads configuration, opens the store and registers it for
// cleanup on exit or SIGINT/SIGTERM.
func openSession(cmd *cobra.Command, cfg *Config) (*session, error) {
	appCfg, err := loadConfig(cmd, cfg)
	if err != nil {
		return nil, err
	}

	mode, err := tasklist.ParseFilterMode(appCfg.UI.DefaultFilter)
	if err != nil {
		return nil, exitcode.Config(err)
	}

	store, err := openStore(cmd.Context(), appCfg, cfg)
	if err != nil {
		return nil, err
	}

	mgr := shutdown.NewManager()
	stop := mgr.Notify(os.Interrupt, syscall.SIGTERM)
	mgr.RegisterCloser("store", store)

	return &session{
		cfg:  appCfg,
		ctrl: tasklist.New(store, tasklist.WithFilter(mode)),
		mgr:  mgr,
		stop: stop,
	}, nil
}

func (s *session) ctx() context.Context {
	return s.mgr.Context()
}

func (s *session) close() {
	s.stop()
	s.mgr.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.mgr.Wait(ctx); err != nil {
		utils.GetLogger().Warn("shutdown incomplete", "err", err)
	}
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, cfg *Config) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = cfg.ConfigPath
	}
	if path == "" {
		path = config.DefaultPath()
	}

	appCfg, err := config.Load(path)
	if err != nil {
		return nil, exitcode.Config(utils.WrapWithSuggestion(err, fmt.Sprintf("Fix or remove %s; 'todopad config path' shows the active file", path)))
	}

	if name, _ := cmd.Flags().GetString("backend"); name != "" {
		appCfg.Backend = name
	}
	if err := appCfg.Validate(); err != nil {
		return nil, exitcode.Config(err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose || cfg.Verbose || appCfg.Logging.Verbose {
		utils.SetVerboseMode(true)
	}
	return appCfg, nil
}

func newCredentialsManager(cfg *Config) *credentials.Manager {
	if cfg.Keyring != nil {
		return credentials.NewManager(credentials.WithKeyring(cfg.Keyring))
	}
	return credentials.NewManager()
}

// openStore resolves the access key and opens the configured store
func openStore(ctx context.Context, appCfg *config.Config, cfg *Config) (backend.Store, error) {
	if cfg.Store != nil {
		return cfg.Store, nil
	}

	registered := backend.Registered()
	if !slices.Contains(registered, appCfg.Backend) {
		return nil, exitcode.Config(utils.ErrUnknownBackend(appCfg.Backend, registered))
	}

	key := appCfg.Key
	if appCfg.Backend == "rest" && key == "" && appCfg.REST.URL != "" {
		info, err := newCredentialsManager(cfg).Get(ctx, "rest", appCfg.REST.URL)
		if err != nil {
			utils.GetLogger().Warn("keyring lookup failed", "err", err)
		} else if info.Found {
			key = info.Secret
		}
	}

	store, err := backend.Open(appCfg.Backend, backend.Options{
		URL:     appCfg.REST.URL,
		Key:     key,
		Table:   appCfg.REST.Table,
		Timeout: appCfg.GetTimeout(),
		Path:    appCfg.SQL.Path,
		DSN:     appCfg.SQL.DSN,
		Seed:    appCfg.UI.SeedSampleTasks,
	})
	if err != nil {
		return nil, exitcode.Backend(err)
	}

	if !store.Connected() {
		utils.GetLogger().Debug("store not connected", "backend", appCfg.Backend)
	}
	return store, nil
}

// loadTasks opens a session and loads the list, closing the session on failure
func loadTasks(cmd *cobra.Command, cfg *Config) (*session, error) {
	s, err := openSession(cmd, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.ctrl.Load(s.ctx()); err != nil {
		s.close()
		return nil, withNotConnectedHint(err)
	}
	return s, nil
}

func withNotConnectedHint(err error) error {
	if errors.Is(err, backend.ErrNotConnected) {
		return utils.ErrNotConnected(err)
	}
	return err
}

// runTUI opens the interactive list
func runTUI(cmd *cobra.Command, stdout io.Writer, cfg *Config) error {
	s, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	// The alt screen owns the terminal: logs go to the session file or nowhere.
	logging := false
	if s.cfg.IsSessionLogEnabled() {
		sessionLog, err := utils.OpenSessionLog(s.cfg.Logging.Dir)
		if err != nil {
			utils.Warnf("session log unavailable: %v", err)
		} else {
			logging = true
			defer func() { _ = sessionLog.Close() }()
			utils.Debugf("session started, logging to %s", sessionLog.Path())
		}
	}
	if !logging {
		restore := utils.GetLogger().Silence()
		defer restore()
	}

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(s.ctx()),
		tea.WithOutput(stdout),
	}
	if cfg.Stdin != nil {
		opts = append(opts, tea.WithInput(cfg.Stdin))
	}

	p := tea.NewProgram(tui.New(s.ctrl, tui.WithContext(s.ctx())), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// newListCmd creates the 'list' subcommand
func newListCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show tasks",
		Long:  "Show tasks ordered by creation time, optionally filtered to active or completed ones.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadTasks(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			if cmd.Flags().Changed("filter") {
				value, _ := cmd.Flags().GetString("filter")
				mode, err := tasklist.ParseFilterMode(value)
				if err != nil {
					return err
				}
				s.ctrl.SetFilter(mode)
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doList(s.ctrl, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("filter", "f", "", "Filter: all, active or completed (default from ui.default_filter)")
	return cmd
}

func doList(ctrl *tasklist.Controller, stdout io.Writer, jsonOutput bool) error {
	visible := ctrl.Visible()
	stats := ctrl.Stats()

	if jsonOutput {
		return outputListJSON(visible, ctrl.FilterMode(), stats, stdout)
	}

	if len(visible) == 0 {
		_, _ = fmt.Fprintln(stdout, "No tasks")
	}
	for _, t := range visible {
		_, _ = fmt.Fprintln(stdout, formatTask(t))
	}
	_, _ = fmt.Fprintf(stdout, "\n%s\n", stats.ItemsLeft())
	return nil
}

// formatTask renders one line of the task list
func formatTask(t backend.Task) string {
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}
	return fmt.Sprintf("%s %-4s %s", checkbox, t.ID, t.Title)
}

// newAddCmd creates the 'add' subcommand
func newAddCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>...",
		Short: "Add one task per argument",
		Long:  "Add one task per argument. Several titles are inserted concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doAdd(s.ctx(), s.ctrl, args, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func doAdd(ctx context.Context, ctrl *tasklist.Controller, titles []string, stdout io.Writer, jsonOutput bool) error {
	nonBlank := 0
	for _, title := range titles {
		if utils.NormalizeTitle(title) != "" {
			nonBlank++
		}
	}
	if nonBlank == 0 {
		return errors.New("task title is empty")
	}

	// Inserts share the session context; one failure never cancels the rest.
	created := make([]*backend.Task, len(titles))
	errs := make([]error, len(titles))
	var g errgroup.Group
	g.SetLimit(maxParallelInserts)
	for i, title := range titles {
		g.Go(func() error {
			task, err := ctrl.Add(ctx, title)
			if err != nil {
				errs[i] = withNotConnectedHint(err)
				return nil
			}
			created[i] = task
			return nil
		})
	}
	_ = g.Wait()
	addErr := errors.Join(errs...)

	var tasks []backend.Task
	for _, t := range created {
		if t != nil {
			tasks = append(tasks, *t)
		}
	}

	if jsonOutput {
		if addErr != nil {
			return addErr
		}
		return outputTasksActionJSON("add", tasks, stdout)
	}
	for _, t := range tasks {
		_, _ = fmt.Fprintf(stdout, "Added: %s (%s)\n", t.Title, t.ID)
	}
	return addErr
}

// newToggleCmd creates the 'toggle' subcommand
func newToggleCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadTasks(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			id := args[0]
			if err := s.ctrl.ToggleCompleted(s.ctx(), id); err != nil {
				return err
			}

			task, _ := s.ctrl.Task(id)
			action := "reopen"
			if task.Completed {
				action = "complete"
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				return outputActionJSON(action, task, stdout)
			}
			if task.Completed {
				_, _ = fmt.Fprintf(stdout, "Completed: %s\n", task.Title)
			} else {
				_, _ = fmt.Fprintf(stdout, "Reopened: %s\n", task.Title)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newEditCmd creates the 'edit' subcommand
func newEditCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title>...",
		Short: "Rename a task",
		Long:  "Rename a task. The remaining arguments are joined with spaces to form the new title.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadTasks(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doEdit(s.ctx(), s.ctrl, args[0], strings.Join(args[1:], " "), stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func doEdit(ctx context.Context, ctrl *tasklist.Controller, id, title string, stdout io.Writer, jsonOutput bool) error {
	task, ok := ctrl.Task(id)
	if !ok {
		return utils.ErrTaskNotFound(id)
	}
	if utils.NormalizeTitle(title) == "" {
		return errors.New("task title is empty")
	}

	ctrl.BeginEdit(id, task.Title)
	ctrl.SetDraft(title)
	if err := ctrl.SaveEdit(ctx, id); err != nil {
		return err
	}

	task, _ = ctrl.Task(id)
	if jsonOutput {
		return outputActionJSON("update", task, stdout)
	}
	_, _ = fmt.Fprintf(stdout, "Updated: %s\n", task.Title)
	return nil
}

// newDeleteCmd creates the 'delete' subcommand
func newDeleteCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadTasks(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			id := args[0]
			task, ok := s.ctrl.Task(id)
			if !ok {
				return utils.ErrTaskNotFound(id)
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !jsonOutput && !utils.ConfirmDelete(task.Title, cfg.stdin(), stdout) {
				_, _ = fmt.Fprintln(stdout, "Cancelled")
				return nil
			}

			if err := s.ctrl.Delete(s.ctx(), id); err != nil {
				return err
			}

			if jsonOutput {
				return outputActionJSON("delete", task, stdout)
			}
			_, _ = fmt.Fprintf(stdout, "Deleted: %s\n", task.Title)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

// newConfigCmd creates the 'config' subcommand
func newConfigCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = cfg.ConfigPath
			}
			if path == "" {
				path = config.DefaultPath()
			}
			_, _ = fmt.Fprintln(stdout, path)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after defaults, environment and flags are applied. The access key is never shown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(appCfg)
			if err != nil {
				return err
			}
			_, _ = stdout.Write(data)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	})

	return configCmd
}

// newCredentialsCmd creates the 'credentials' subcommand
func newCredentialsCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage store access keys",
		Long:  "Store, inspect and remove access keys in the system keyring.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	credentialsCmd.AddCommand(newCredentialsSetCmd(stdout, cfg))
	credentialsCmd.AddCommand(newCredentialsGetCmd(stdout, cfg))
	credentialsCmd.AddCommand(newCredentialsDeleteCmd(stdout, cfg))

	return credentialsCmd
}

// newCredentialsSetCmd creates the 'credentials set' subcommand
func newCredentialsSetCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <backend> <url>",
		Short: "Store an access key in the system keyring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, _ := cmd.Flags().GetBool("prompt")
			handler := credentials.NewCLIHandler(newCredentialsManager(cfg), cfg.stdin(), stdout)
			return credentialsErr(handler.Set(cmd.Context(), args[0], args[1], prompt))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Bool("prompt", false, "Prompt for the key (required)")
	return cmd
}

// newCredentialsGetCmd creates the 'credentials get' subcommand
func newCredentialsGetCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get <backend> <url>",
		Short: "Show where the access key comes from",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			handler := credentials.NewCLIHandler(newCredentialsManager(cfg), nil, stdout)
			return credentialsErr(handler.Get(cmd.Context(), args[0], args[1], jsonOutput))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newCredentialsDeleteCmd creates the 'credentials delete' subcommand
func newCredentialsDeleteCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <backend> <url>",
		Short: "Remove an access key from the system keyring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := credentials.NewCLIHandler(newCredentialsManager(cfg), nil, stdout)
			return credentialsErr(handler.Delete(cmd.Context(), args[0], args[1]))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// credentialsErr reports a missing keyring as a config error
func credentialsErr(err error) error {
	if errors.Is(err, credentials.ErrKeyringNotAvailable) {
		return exitcode.Config(err)
	}
	return err
}

// JSON output structures
type taskJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

type listTasksResponse struct {
	Tasks  []taskJSON     `json:"tasks"`
	Filter string         `json:"filter"`
	Count  int            `json:"count"`
	Stats  tasklist.Stats `json:"stats"`
	Result string         `json:"result"`
}

type actionResponse struct {
	Action string   `json:"action"`
	Task   taskJSON `json:"task"`
	Result string   `json:"result"`
}

type tasksActionResponse struct {
	Action string     `json:"action"`
	Tasks  []taskJSON `json:"tasks"`
	Result string     `json:"result"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
	Code       int    `json:"code"`
	Result     string `json:"result"`
}

// taskToJSON converts a backend.Task to taskJSON
func taskToJSON(t backend.Task) taskJSON {
	return taskJSON{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func tasksToJSON(tasks []backend.Task) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToJSON(t))
	}
	return out
}

func writeJSON(v any, stdout io.Writer) error {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}

// outputListJSON outputs the visible tasks in JSON format
func outputListJSON(tasks []backend.Task, mode tasklist.FilterMode, stats tasklist.Stats, stdout io.Writer) error {
	return writeJSON(listTasksResponse{
		Tasks:  tasksToJSON(tasks),
		Filter: mode.String(),
		Count:  len(tasks),
		Stats:  stats,
		Result: ResultInfoOnly,
	}, stdout)
}

// outputActionJSON outputs a single-task action result in JSON format
func outputActionJSON(action string, task backend.Task, stdout io.Writer) error {
	return writeJSON(actionResponse{
		Action: action,
		Task:   taskToJSON(task),
		Result: ResultActionCompleted,
	}, stdout)
}

// outputTasksActionJSON outputs a multi-task action result in JSON format
func outputTasksActionJSON(action string, tasks []backend.Task, stdout io.Writer) error {
	return writeJSON(tasksActionResponse{
		Action: action,
		Tasks:  tasksToJSON(tasks),
		Result: ResultActionCompleted,
	}, stdout)
}

// outputErrorJSON outputs error in JSON format
func outputErrorJSON(err error, code int, stdout io.Writer) {
	response := errorResponse{
		Error:      err.Error(),
		Suggestion: utils.Suggestion(err),
		Code:       code,
		Result:     ResultError,
	}

	jsonBytes, _ := json.Marshal(response)
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
}
