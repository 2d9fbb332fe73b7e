package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/initify/logdrains/internal/vercel"
)

type rootFlags struct {
	Token  string
	Team   string
	APIURL string
	JSON   bool
	Debug  bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:          "logdrains",
		Short:        "Manage Vercel log drains from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rf.logger = newLogger(cmd.ErrOrStderr(), rf.Debug)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = rf.logger.Sync()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rf.Token, "token", os.Getenv("VERCEL_TOKEN"), "Vercel access token (defaults to VERCEL_TOKEN)")
	pf.StringVar(&rf.Team, "team", os.Getenv("VERCEL_TEAM_ID"), "Team id; empty selects the personal account (defaults to VERCEL_TEAM_ID)")
	pf.StringVar(&rf.APIURL, "api-url", vercel.DefaultBaseURL, "Vercel API base URL")
	pf.BoolVar(&rf.JSON, "json", false, "Print JSON instead of human-readable output")
	pf.BoolVar(&rf.Debug, "debug", false, "Log API requests to stderr")

	rootCmd.AddCommand(drainsCmd(rf))
	rootCmd.AddCommand(projectsCmd(rf))
	rootCmd.AddCommand(tokenCmd(rf))

	return rootCmd
}

// newLogger writes API call logs to w when debug is set.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel))
}

func (rf *rootFlags) client() *vercel.Client {
	logger := rf.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return vercel.NewClient(vercel.WithBaseURL(rf.APIURL), vercel.WithLogger(logger))
}

func (rf *rootFlags) tokenOrErr() (string, error) {
	if rf.Token == "" {
		return "", errors.New("missing --token (or set VERCEL_TOKEN)")
	}
	return rf.Token, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
