package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youssefsiam38/mfdash/modelfactory"
)

func pingCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the Model Factory frontend service answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			client, err := modelfactory.New(cfg.FrontendEndpoint(), modelfactory.WithTimeout(cfg.RequestTimeout))
			if err != nil {
				return err
			}
			if err := client.Keepalive(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is up\n", client.Endpoint())
			return nil
		},
	}
}
