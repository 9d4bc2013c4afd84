package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hpcdesk/launchpad/cmd/config"
	"github.com/hpcdesk/launchpad/internal/tui/browser"
	"github.com/hpcdesk/launchpad/pkg/launcher"
)

// NewTuiCmd creates the `launchpad tui` command.
func NewTuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [path]",
		Short: "Browse and launch objects interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			base, _, err := config.ResolveBase(arg)
			if err != nil {
				return err
			}

			logger := config.NewLogger()
			svc, err := config.NewService(base, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			return RunBrowser(svc)
		},
	}
}

// RunBrowser starts the interactive browser for an initialized service.
func RunBrowser(svc *launcher.Service) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the browser requires an interactive terminal")
	}

	p := tea.NewProgram(browser.New(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}
