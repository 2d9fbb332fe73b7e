package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/initify/logdrains/internal/vercel"
)

func drainsCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drains",
		Short: "List, create and delete log drains",
	}
	cmd.AddCommand(drainsListCmd(rf))
	cmd.AddCommand(drainsCreateCmd(rf))
	cmd.AddCommand(drainsDeleteCmd(rf))
	return cmd
}

func drainsListCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the log drains of the account or team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := rf.tokenOrErr()
			if err != nil {
				return err
			}
			drains, err := rf.client().GetLogDrains(cmd.Context(), token, rf.Team)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rf.JSON {
				return printJSON(out, drains)
			}
			if len(drains) == 0 {
				fmt.Fprintln(out, "No log drains.")
				return nil
			}
			data := make([][]string, 0, len(drains))
			for _, d := range drains {
				data = append(data, drainRow(d))
			}
			renderTable(out, drainLabels, data)
			return nil
		},
	}
}

func drainsCreateCmd(rf *rootFlags) *cobra.Command {
	var (
		req      vercel.CreateLogDrainRequest
		drainType string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a log drain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := rf.tokenOrErr()
			if err != nil {
				return err
			}
			req.Type = vercel.LogDrainType(drainType)
			drain, err := rf.client().CreateLogDrain(cmd.Context(), token, rf.Team, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rf.JSON {
				return printJSON(out, drain)
			}
			fmt.Fprintf(out, "Created log drain %s (%s).\n", drain.ID, drain.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Drain name")
	cmd.Flags().StringVar(&req.URL, "url", "", "Delivery URL")
	cmd.Flags().StringVar(&drainType, "type", string(vercel.LogDrainNDJSON), "Delivery format: json, ndjson or syslog")
	cmd.Flags().StringVar(&req.ProjectID, "project", "", "Restrict the drain to one project id")
	cmd.Flags().StringVar(&req.Secret, "secret", "", "Secret used to sign deliveries")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func drainsDeleteCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a log drain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := rf.tokenOrErr()
			if err != nil {
				return err
			}
			if err := rf.client().DeleteLogDrain(cmd.Context(), token, args[0], rf.Team); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if rf.JSON {
				return printJSON(out, map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(out, "Deleted log drain %s.\n", args[0])
			return nil
		},
	}
}
