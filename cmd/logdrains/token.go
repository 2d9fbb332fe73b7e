package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/initify/logdrains/internal/vercel"
)

// tokenCmd runs the OAuth code exchange by hand, e.g. with a code copied
// from a callback URL during development.
func tokenCmd(rf *rootFlags) *cobra.Command {
	req := vercel.TokenRequest{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange an OAuth code for an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.ClientID == "" || req.ClientSecret == "" {
				return errors.New("missing --client-id/--client-secret (or set CLIENT_ID/CLIENT_SECRET)")
			}
			creds, err := rf.client().GetAccessToken(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rf.JSON {
				return printJSON(out, creds)
			}
			scope := "personal account"
			if creds.IsTeam() {
				scope = "team " + creds.Team()
			}
			fmt.Fprintf(out, "Access token for %s (installation %s):\n%s\n", scope, creds.InstallationID, creds.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Code, "code", "", "Code from the OAuth callback")
	cmd.Flags().StringVar(&req.ClientID, "client-id", os.Getenv("CLIENT_ID"), "Integration client id (defaults to CLIENT_ID)")
	cmd.Flags().StringVar(&req.ClientSecret, "client-secret", os.Getenv("CLIENT_SECRET"), "Integration client secret (defaults to CLIENT_SECRET)")
	cmd.Flags().StringVar(&req.RedirectURI, "redirect-uri", "", "Redirect URI registered for the integration")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}
