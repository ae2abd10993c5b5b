// ABOUTME: Entry point for the math-adventure progression tracker CLI
// ABOUTME: Wires the store, session, ledger, tracker, and rewards components

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/math-adventure/internal/catalog"
	"github.com/2389/math-adventure/internal/config"
	"github.com/2389/math-adventure/internal/kv"
	"github.com/2389/math-adventure/internal/ledger"
	"github.com/2389/math-adventure/internal/notify"
	"github.com/2389/math-adventure/internal/quest"
	"github.com/2389/math-adventure/internal/rewards"
	"github.com/2389/math-adventure/internal/session"
	"github.com/2389/math-adventure/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                 _   _                      _                 _
 _ __ ___   __ _| |_| |__     __ _  __| |_   _____ _ __ | |_ _   _ _ __ ___
| '_ ' _ \ / _' | __| '_ \   / _' |/ _' \ \ / / _ \ '_ \| __| | | | '__/ _ \
| | | | | | (_| | |_| | | | | (_| | (_| |\ V /  __/ | | | |_| |_| | | |  __/
|_| |_| |_|\__,_|\__|_| |_|  \__,_|\__,_| \_/ \___|_| |_|\__|\__,_|_|  \___|
`

// getConfigPath returns the path to the tracker config file.
// Priority: ADVENTURE_CONFIG env var > XDG_CONFIG_HOME/math-adventure/adventure.yaml
func getConfigPath() string {
	if envPath := os.Getenv("ADVENTURE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "adventure.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "math-adventure", "adventure.yaml")
}

// getDataPath returns the default data directory.
// Priority: XDG_DATA_HOME/math-adventure > ~/.local/share/math-adventure
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "math-adventure")
}

func usage() {
	color.Cyan(banner)
	fmt.Printf("math-adventure %s\n\n", version)
	fmt.Println("Usage: adventure <command>")
	fmt.Println()
	fmt.Println("Setup:")
	fmt.Println("  init                         Write a starter config file")
	fmt.Println()
	fmt.Println("Account:")
	fmt.Println("  register <username>          Create a player and log in")
	fmt.Println("  login <username>             Log in")
	fmt.Println("  logout                       Log out")
	fmt.Println("  switch <user-id>             Switch to another player")
	fmt.Println("  users                        List players")
	fmt.Println()
	fmt.Println("Playing:")
	fmt.Println("  stats                        Show level and balances")
	fmt.Println("  quests                       List quests and their status")
	fmt.Println("  start <quest-id>             Start a quest")
	fmt.Println("  update <quest-id> <correct> <total>")
	fmt.Println("                               Record partial quest progress")
	fmt.Println("  complete <quest-id> <correct> <total>")
	fmt.Println("                               Complete a quest and collect rewards")
	fmt.Println()
	fmt.Println("Shop:")
	fmt.Println("  shop                         List items")
	fmt.Println("  buy <item-id>                Purchase an item")
	fmt.Println("  equip <item-id>              Equip or unequip an owned item")
	fmt.Println("  badges                       List badges")
	fmt.Println()
	fmt.Println("Data:")
	fmt.Println("  report [html]                Print a progress report")
	fmt.Println("  export                       Print a storage snapshot")
	fmt.Println("  import <file>                Replace storage from a snapshot")
	fmt.Println("  reset                        Erase all data")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	args := os.Args[2:]
	switch os.Args[1] {
	case "init":
		err = app.runInit()
	case "register":
		err = app.runRegister(ctx, args)
	case "login":
		err = app.runLogin(ctx, args)
	case "logout":
		err = app.runLogout(ctx)
	case "switch":
		err = app.runSwitch(ctx, args)
	case "users":
		err = app.runUsers(ctx)
	case "stats":
		err = app.runStats(ctx)
	case "quests":
		err = app.runQuests(ctx)
	case "start":
		err = app.runStart(ctx, args)
	case "update":
		err = app.runUpdate(ctx, args, false)
	case "complete":
		err = app.runUpdate(ctx, args, true)
	case "shop":
		err = app.runShop(ctx)
	case "buy":
		err = app.runBuy(ctx, args)
	case "equip":
		err = app.runEquip(ctx, args)
	case "badges":
		err = app.runBadges(ctx)
	case "report":
		err = app.runReport(ctx, args)
	case "export":
		err = app.runExport(ctx)
	case "import":
		err = app.runImport(ctx, args)
	case "reset":
		err = app.runReset(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components for one invocation.
type app struct {
	cfg     *config.Config
	store   *store.Store
	session *session.Manager
	ledger  *ledger.Ledger
	tracker *quest.Tracker
	rewards *rewards.Manager
	catalog *catalog.Catalog
	notices *notify.Queue
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	setupLogger(cfg.Logging)

	path := cfg.Storage.Path
	if path == "" {
		path = filepath.Join(getDataPath(), "adventure.db")
	}

	backing, err := kv.Open(cfg.Storage.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	st := store.New(backing)
	if err := st.Initialize(ctx); err != nil {
		backing.Close()
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	cat, err := catalog.LoadDir(cfg.Catalog.Dir)
	if err != nil {
		backing.Close()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	sess := session.New(st)
	sess.Load(ctx)
	led := ledger.New(st, sess)

	return &app{
		cfg:     cfg,
		store:   st,
		session: sess,
		ledger:  led,
		tracker: quest.New(st, sess),
		rewards: rewards.New(st, sess, led, cat),
		catalog: cat,
		notices: notify.NewQueue(),
	}, nil
}

func (a *app) Close() {
	a.notices.ClearAll()
	a.store.Close()
}

// setupLogger configures the default slog logger from config.
func setupLogger(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// flushNotices prints and clears queued notifications.
func (a *app) flushNotices() {
	for {
		n := a.notices.Active()
		if n == nil {
			return
		}
		switch n.Kind {
		case notify.KindSuccess:
			color.Green("✔ %s", n.Message)
		case notify.KindError:
			color.Red("✘ %s", n.Message)
		case notify.KindWarning:
			color.Yellow("! %s", n.Message)
		default:
			fmt.Println(n.Message)
		}
		a.notices.Dismiss(n.ID)
	}
}

// promptLine reads one trimmed line from stdin.
func promptLine() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password from stdin.
func promptPassword() (string, error) {
	fmt.Print("Password: ")
	return promptLine()
}

// requireUser returns the active user or an instructive error.
func (a *app) requireUser() (*store.User, error) {
	user := a.session.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("nobody is logged in (try: adventure login <username>)")
	}
	return user, nil
}
