package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hpcdesk/launchpad/cmd"
	"github.com/hpcdesk/launchpad/cmd/config"
	"github.com/hpcdesk/launchpad/pkg/descriptor"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "launchpad [path]",
		Short: "A descriptor-driven desktop launcher",
		Long: `Launchpad presents a navigable tree of JSON-described objects and
dispatches their open actions: descend into a directory, invoke an
external UI handler, or run a script as a detached process.

The positional argument is the initial base directory, or a single
descriptor file whose directory becomes the base and whose open action
is dispatched immediately on startup. Without an argument the base is
./Objects.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			base, descriptorPath, err := config.ResolveBase(arg)
			if err != nil {
				return err
			}

			logger := config.NewLogger()
			svc, err := config.NewService(base, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			if descriptorPath != "" {
				obj, err := descriptor.Load(descriptorPath)
				if err != nil {
					return fmt.Errorf("load descriptor: %w", err)
				}
				svc.Open(obj)
			}

			return cmd.RunBrowser(svc)
		},
	}

	cobra.OnInitialize(config.InitConfig)
	config.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cmd.NewTuiCmd())
	rootCmd.AddCommand(cmd.NewListCmd())
	rootCmd.AddCommand(cmd.NewOpenCmd())
	rootCmd.AddCommand(cmd.NewSessionsCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
