package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func projectsCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect projects",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the projects a drain can be restricted to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := rf.tokenOrErr()
			if err != nil {
				return err
			}
			projects, err := rf.client().GetProjects(cmd.Context(), token, rf.Team)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rf.JSON {
				return printJSON(out, projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects.")
				return nil
			}
			data := make([][]string, 0, len(projects))
			for _, p := range projects {
				data = append(data, []string{p.ID, p.Name, p.AccountID})
			}
			renderTable(out, projectLabels, data)
			return nil
		},
	})
	return cmd
}
