package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpcdesk/launchpad/pkg/session"
)

// NewSessionsCmd creates the `launchpad sessions` command: show the
// background processes recorded by past launches.
func NewSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded background sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := session.NewRegistry(viper.GetString("data_dir"))
			if err != nil {
				return fmt.Errorf("open session registry: %w", err)
			}
			defer reg.Close()

			sessions, err := reg.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tPID\tPGID\tLABEL")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.StartedAt.Format("2006-01-02 15:04:05"), s.PID, s.PGID, s.Label)
			}
			return w.Flush()
		},
	}
}
