package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hpcdesk/launchpad/cmd/config"
	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/dispatch"
)

// NewOpenCmd creates the `launchpad open` command: dispatch a single
// descriptor without the browser.
func NewOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <descriptor.json>",
		Short: "Dispatch one descriptor's open action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := descriptor.Load(args[0])
			if err != nil {
				return fmt.Errorf("load descriptor: %w", err)
			}

			logger := config.NewLogger()
			svc, err := config.NewService(filepath.Dir(obj.Source), logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			out := svc.Open(obj)
			switch out.Kind {
			case dispatch.OutcomeNavigate:
				fmt.Printf("directory: %s\n", out.NewBase)
			case dispatch.OutcomeScript:
				fmt.Printf("started %s (pid %d, pgid %d)\n", obj.Title, out.PID, out.PGID)
			case dispatch.OutcomePlugin:
				fmt.Printf("opened %s\n", out.Handle.Title)
			default:
				fmt.Println("nothing to open")
			}
			return nil
		},
	}
}
