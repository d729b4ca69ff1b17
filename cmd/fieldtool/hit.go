package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHitCmd(root *rootOptions) *cobra.Command {
	var x, y float64
	cmd := &cobra.Command{
		Use:   "hit",
		Short: "List the zones containing a normalized point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := root.loadField()
			if err != nil {
				return err
			}
			ids := f.ZonesAt(x, y)
			if len(ids) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "(%g, %g): no zone\n", x, y)
				return nil
			}
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "(%g, %g): %s\n", x, y, id)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "normalized x")
	cmd.Flags().Float64Var(&y, "y", 0, "normalized y")
	return cmd
}
