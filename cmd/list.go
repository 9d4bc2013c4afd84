package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hpcdesk/launchpad/cmd/config"
	"github.com/hpcdesk/launchpad/pkg/descriptor"
)

func NewListCmd() *cobra.Command {
	var listJSON bool

	cmd := &cobra.Command{
		Use:     "list [path]",
		Short:   "List objects in a directory",
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			base, _, err := config.ResolveBase(arg)
			if err != nil {
				return err
			}

			objects := descriptor.NewStore(config.NewLogger()).Scan(base)

			if listJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(objects)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tACTION\tARG\tFILE")
			for _, obj := range objects {
				action, arg0 := "-", "-"
				if obj.OpenAction != nil {
					action = string(obj.OpenAction.Command)
					arg0 = obj.OpenAction.Arg0
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", obj.Title, action, arg0, obj.Source)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	return cmd
}
