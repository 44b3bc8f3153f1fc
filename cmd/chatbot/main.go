// Command chatbot is a terminal health-assistant chat client.
//
// Usage:
//
//	chatbot [flags]                  start the chat TUI
//	chatbot serve [--addr :5000]     run the reply server
//	chatbot sessions                 list saved chats
//	chatbot export [--out dir]       export the active chat
//
// With GEMINI_API_KEY or ANTHROPIC_API_KEY set, the TUI asks the model
// directly. Otherwise it posts to the reply server at --server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	bt "github.com/JyothikaKancharla/chatbot/bubbletea"
	chatfs "github.com/JyothikaKancharla/chatbot/fs"
	chathttp "github.com/JyothikaKancharla/chatbot/http"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chatbot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// cliFlags holds raw flag values. Only flags the user set override Config.
type cliFlags struct {
	configPath string
	envFile    string
	store      string
	dataDir    string
	backend    string
	server     string
	model      string
	apiKey     string
	timeout    time.Duration
	logLevel   string

	exportDir      string
	attachDir      string
	attachPatterns []string
}

func newRootCmd() *cobra.Command {
	var (
		f   cliFlags
		cfg Config
	)

	root := &cobra.Command{
		Use:   "chatbot",
		Short: "Health-assistant chat in the terminal",
		// Running chatbot with no subcommand starts the TUI.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", defaultConfigPath(), "config file path")
	pf.StringVar(&f.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	pf.StringVar(&f.store, "store", "", "session store: json or sqlite")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory for chat history, settings and logs (default ~/.chatbot)")
	pf.StringVarP(&f.backend, "backend", "b", "", "reply backend: http, anthropic or gemini (auto-detected if omitted)")
	pf.StringVar(&f.server, "server", "", "reply server URL for the http backend")
	pf.StringVarP(&f.model, "model", "m", "", "model ID (backend default if omitted)")
	pf.StringVar(&f.apiKey, "api-key", "", "API key for the selected --backend (overrides the environment)")
	pf.DurationVar(&f.timeout, "timeout", 0, "reply timeout")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	addChatFlags(root, &f)

	chat := &cobra.Command{
		Use:   "chat",
		Short: "Start the chat TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), cfg)
		},
	}
	addChatFlags(chat, &f)

	root.AddCommand(
		chat,
		newServeCmd(&cfg),
		newSessionsCmd(&cfg),
		newExportCmd(&cfg),
	)
	return root
}

func addChatFlags(cmd *cobra.Command, f *cliFlags) {
	cmd.Flags().StringVar(&f.exportDir, "export-dir", "", "directory for exported chats")
	cmd.Flags().StringVar(&f.attachDir, "attach-dir", "", "directory searched by the attach key")
	cmd.Flags().StringSliceVar(&f.attachPatterns, "attach", nil, "glob patterns offered by the attach key")
}

// resolveConfig loads the dotenv file, the config file and the environment,
// then applies the flags the user set.
func resolveConfig(cmd *cobra.Command, f cliFlags) (Config, error) {
	if err := loadDotEnv(f.envFile); err != nil {
		return Config{}, err
	}
	cfg, err := loadConfig(f.configPath, cmd.Flags().Changed("config"), nil)
	if err != nil {
		return Config{}, err
	}
	if err := applyFlags(cmd, f, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyFlags(cmd *cobra.Command, f cliFlags, cfg *Config) error {
	changed := cmd.Flags().Changed
	if changed("store") {
		cfg.Store = f.store
	}
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("server") {
		cfg.ServerURL = f.server
	}
	if changed("model") {
		cfg.Model = f.model
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("export-dir") {
		cfg.ExportDir = f.exportDir
	}
	if changed("attach-dir") {
		cfg.AttachDir = f.attachDir
	}
	if changed("attach") {
		cfg.AttachPatterns = f.attachPatterns
	}
	// Resolve API key: explicit flag overrides env var.
	if changed("api-key") {
		switch cfg.Backend {
		case backendAnthropic:
			cfg.AnthropicAPIKey = f.apiKey
		case backendGemini:
			cfg.GeminiAPIKey = f.apiKey
		default:
			return errors.New("--api-key needs --backend anthropic or gemini")
		}
	}
	return nil
}

func runChat(ctx context.Context, cfg Config) error {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, logFile, err := openLogFile(cfg.logPath(), level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	st, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	replier, err := resolveReplier(ctx, cfg)
	if err != nil {
		return err
	}

	// Load failures leave usable empty state; the TUI shows them as a warning.
	store, loadErr := chatbot.NewStore(st.sessions, chatbot.WithLogger(logger))
	themes, themeErr := chatbot.NewThemeController(st.themes)

	m := bt.New(store, replier, themes,
		bt.WithLogger(logger),
		bt.WithExportDir(cfg.ExportDir),
		bt.WithAttachments(cfg.AttachDir, cfg.AttachPatterns),
		bt.WithReplyTimeout(cfg.Timeout),
		bt.WithWarning(errors.Join(loadErr, themeErr)),
	)
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func newServeCmd(cfg *Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reply server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			return runServe(cmd.Context(), *cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :5000)")
	return cmd
}

func runServe(ctx context.Context, cfg Config) error {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, level)

	replier, err := resolveServerReplier(ctx, cfg)
	if err != nil {
		return err
	}
	if replier == nil {
		logger.Warn("no API key configured, chat requests will be refused")
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := chathttp.NewServer(replier, db.ChatLog(), chathttp.WithLogger(logger))
	return srv.ListenAndServe(ctx, cfg.Addr)
}

// openStore opens the configured storage and loads its state for the
// non-interactive commands, which fail outright on a load error.
func openStore(cfg Config) (*chatbot.Store, func() error, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(os.Stderr, level)
	st, err := openStorage(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	store, err := chatbot.NewStore(st.sessions, chatbot.WithLogger(logger))
	if err != nil {
		st.close()
		return nil, nil, err
	}
	return store, st.close, nil
}

func newSessionsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved chats, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sessionTable(store.State()))
			return err
		},
	}
}

// sessionTable renders the session list. The active row is marked with *.
func sessionTable(st chatbot.State) string {
	if len(st.Sessions) == 0 {
		return "No chats"
	}
	rows := make([][]string, 0, len(st.Sessions))
	for _, s := range st.Sessions {
		marker := ""
		if s.ID == st.ActiveID {
			marker = "*"
		}
		updated := ""
		if n := len(s.Messages); n > 0 {
			updated = s.Messages[n-1].Timestamp.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{marker, s.ID, s.DisplayTitle(), fmt.Sprint(len(s.Messages)), updated})
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "ID", "TITLE", "MESSAGES", "UPDATED").
		Rows(rows...).
		String()
}

func newExportCmd(cfg *Config) *cobra.Command {
	var out, id string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a chat transcript to a text file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.ExportDir
			if cmd.Flags().Changed("out") {
				dir = out
			}
			store, closeFn, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			doc, err := exportDocument(store, id)
			if err != nil {
				return err
			}
			path, err := chatfs.WriteDocument(dir, doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: export_dir from config)")
	cmd.Flags().StringVar(&id, "id", "", "session to export (default: the active one)")
	return cmd
}

func exportDocument(store *chatbot.Store, id string) (chatbot.Document, error) {
	if id == "" {
		return chatbot.Export(store.State(), time.Local)
	}
	s, ok := store.Session(id)
	if !ok {
		return chatbot.Document{}, fmt.Errorf("%w: %s", chatbot.ErrSessionNotFound, id)
	}
	return chatbot.ExportSession(s, time.Local)
}
