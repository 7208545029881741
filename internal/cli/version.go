package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantbook/pkg/plantbook"
)

const modulePath = "github.com/mesh-intelligence/plantbook"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the plantbook version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "plantbook v%s\nmodule: %s\n", plantbook.Version, modulePath)
			return nil
		},
	}
}
