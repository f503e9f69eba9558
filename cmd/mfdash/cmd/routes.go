package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/youssefsiam38/mfdash/route"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the dashboard route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tVIEW")
			for _, r := range route.Default().Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Name, r.View)
			}
			return w.Flush()
		},
	}
}
