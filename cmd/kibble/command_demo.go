package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripkitten-co/kibble"
)

type demoItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

const demoKey = "custom_1"

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Save a few records to a set and check membership",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			set := kibble.Set[demoItem](s, demoKey)
			added, err := set.Add(ctx,
				demoItem{ID: 1, Name: "a"},
				demoItem{ID: 2, Name: "b"},
				demoItem{ID: 3, Name: "c"},
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %d new members to %s\n", added, demoKey)

			for _, probe := range []demoItem{{ID: 1, Name: "a"}, {ID: 1, Name: "d"}} {
				ok, err := set.Contains(ctx, probe)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "member {%d %s}: %t\n", probe.ID, probe.Name, ok)
			}

			members, err := set.Members(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s holds %d members\n", demoKey, len(members))
			for _, m := range members {
				fmt.Fprintf(out, "  {%d %s}\n", m.ID, m.Name)
			}
			return nil
		},
	}
}
