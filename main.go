package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mahamantras2024-ux/Study-planner/internal/config"
	"github.com/mahamantras2024-ux/Study-planner/internal/logger"
	"github.com/mahamantras2024-ux/Study-planner/internal/persist"
	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
	"github.com/mahamantras2024-ux/Study-planner/internal/tui"
)

func main() {
	cfg := config.Load()

	dataDir := cfg.DataDir
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		dataDir = filepath.Join(base, "studyplanner")
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: dataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()

	local, err := persist.OpenLocal(filepath.Join(dataDir, "planner.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}

	username, token, err := resolveSession(cfg, local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := local.SetActiveUser(username); err != nil {
		log.Warn("remember active user", "err", err)
	}
	if err := local.RememberUser(username); err != nil {
		log.Warn("remember username", "err", err)
	}

	// Remote vs. local is decided here, once, for the process lifetime.
	backend := persist.Choose(cfg.APIBase, token, local)
	defer backend.Close()

	store := planner.Open(backend, username)
	defer store.Close()

	if status := store.Status(); status.Err != "" {
		log.Warn("initial load fell back to seeded items", "err", status.Err)
	}

	app := tui.NewApp(store, username, dataDir)
	p := tea.NewProgram(app, tea.WithAltScreen())
	tui.BindSync(p, store)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// resolveSession determines the username and, in remote mode, a bearer
// token — prompting only for what the environment and the local store
// don't already provide.
func resolveSession(cfg config.Config, local *persist.Local) (username, token string, err error) {
	username = cfg.User
	if username == "" {
		username, _ = local.ActiveUser()
	}

	if cfg.APIBase == "" {
		if username == "" {
			known, _ := local.Usernames()
			username, err = tui.RunUserSelect(known, "")
			if err != nil {
				return "", "", err
			}
		}
		return username, "", nil
	}

	token, _ = local.Token()
	if token != "" && username != "" {
		return username, token, nil
	}

	username, token, err = tui.RunLogin(cfg.APIBase, username)
	if err != nil {
		return "", "", err
	}
	if err := local.SetToken(token); err != nil {
		return "", "", fmt.Errorf("store token: %w", err)
	}
	return username, token, nil
}
