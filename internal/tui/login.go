package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mahamantras2024-ux/Study-planner/internal/persist"
	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
)

// BindSync forwards store sync-status changes into the running program
// as messages, so the footer badge updates without polling.
func BindSync(p *tea.Program, s *planner.Store) {
	s.OnSync(func(st planner.SyncStatus) {
		p.Send(syncMsg(st))
	})
}

func validateUsername(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("username is required")
	}
	return nil
}

// RunUserSelect picks the session username in local mode: choose one of
// the locally known usernames or type a new one. Runs before the main
// program starts.
func RunUserSelect(known []string, defaultUser string) (string, error) {
	username := defaultUser

	if len(known) > 0 {
		const newUser = "(new user)"
		choice := known[0]
		options := make([]huh.Option[string], 0, len(known)+1)
		for _, u := range known {
			options = append(options, huh.NewOption(u, u))
		}
		options = append(options, huh.NewOption(newUser, newUser))

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().Title("Who is studying?").Options(options...).Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			return "", err
		}
		if choice != newUser {
			return choice, nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&username).Validate(validateUsername),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(username), nil
}

// RunLogin collects credentials and exchanges them for a bearer token,
// registering first when asked. Auth failures re-prompt with the server's
// message; there is no session to fall back to.
func RunLogin(apiBase, defaultUser string) (username, token string, err error) {
	username = defaultUser
	password := ""
	action := "login"

	for {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Username").Value(&username).Validate(validateUsername),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).
					Validate(func(v string) error {
						if v == "" {
							return errors.New("password is required")
						}
						return nil
					}),
				huh.NewSelect[string]().Title("Action").
					Options(
						huh.NewOption("Log in", "login"),
						huh.NewOption("Register", "register"),
					).Value(&action),
			).Title("Sync account"),
		)
		if err := form.Run(); err != nil {
			return "", "", err
		}

		username = strings.TrimSpace(username)
		if action == "register" {
			token, err = persist.Register(apiBase, username, password)
		} else {
			token, err = persist.Login(apiBase, username, password)
		}
		if err == nil {
			return username, token, nil
		}

		fmt.Println(errorStyle.Render(err.Error()))
		password = ""
	}
}
