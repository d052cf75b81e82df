package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dmitrijs2005/surveykeeper/internal/buildinfo"
	"github.com/dmitrijs2005/surveykeeper/internal/client/cli"
	"github.com/dmitrijs2005/surveykeeper/internal/client/client"
	"github.com/dmitrijs2005/surveykeeper/internal/client/config"
	"github.com/dmitrijs2005/surveykeeper/internal/filex"
	"github.com/dmitrijs2005/surveykeeper/internal/legacy"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server"
	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
	"github.com/spf13/cobra"
)

func rootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "surveycli",
		Short:         "Survey terminal client and admin tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cfg.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		replCmd(cfg),
		importCmd(cfg),
		exportCmd(cfg),
		resultsCmd(cfg),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, args []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))), nil
}

func openStack(ctx context.Context, cfg *config.Config) (*server.Stack, logging.Logger, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	stack, err := server.OpenStack(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.SurveyVariant, cfg.ResetCodeValidity)
	if err != nil {
		return nil, nil, err
	}
	return stack, logger, nil
}

func replCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Answer the survey from the terminal against the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, logger, err := openStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer stack.Close()

			app := cli.NewApp(stack.Controller(session.TokenConfig{}, logger), cmd.InOrStdin(), cmd.OutOrStdout())
			app.Run(cmd.Context())
			return nil
		},
	}
}

func importCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load users.json and the results workbook into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, logger, err := openStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer stack.Close()

			rep, err := legacy.NewTransfer(stack.Users, stack.Responses, logger).
				Import(cmd.Context(), cfg.UsersFile, cfg.ResultsFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users: %d, responses imported: %d, skipped: %d\n", rep.Users, rep.Imported, rep.Skipped)
			return nil
		},
	}
}

func exportCmd(cfg *config.Config) *cobra.Command {
	var upload bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write users.json and the results workbook from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, logger, err := openStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer stack.Close()

			for _, path := range []string{cfg.UsersFile, cfg.ResultsFile} {
				if _, err := filex.EnsureParentDir(path); err != nil {
					return err
				}
			}

			if err := legacy.NewTransfer(stack.Users, stack.Responses, logger).
				Export(cmd.Context(), cfg.UsersFile, cfg.ResultsFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", cfg.UsersFile, cfg.ResultsFile)

			if !upload {
				return nil
			}
			urls, err := legacy.NewPublisher(legacy.S3Config{
				RootUser:     cfg.S3RootUser,
				RootPassword: cfg.S3RootPassword,
				Bucket:       cfg.S3Bucket,
				Region:       cfg.S3Region,
				BaseEndpoint: cfg.S3BaseEndpoint,
			}).Publish(cmd.Context(), cfg.UsersFile, cfg.ResultsFile)
			if err != nil {
				return err
			}
			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&upload, "upload", false, "publish the files to S3 and print download links")
	return cmd
}

func resultsCmd(cfg *config.Config) *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Fetch the survey summary from the results API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewResultsClient(cfg.ServerAddr, cfg.AccessToken)
			if err != nil {
				return err
			}
			defer c.Close()

			w := cmd.OutOrStdout()
			if mine {
				ok, err := c.HasResponded(cmd.Context(), "")
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "responded: %t\n", ok)
				return nil
			}

			sum, err := c.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s [%s, %s] total: %d\n", sum.Title, sum.Variant, sum.Chart, sum.Total)
			for _, k := range sortedKeys(sum.Counts) {
				fmt.Fprintf(w, "  %-24s %d\n", k, sum.Counts[k])
			}
			for _, k := range sortedKeys(sum.Averages) {
				line := fmt.Sprintf("  %-24s %.2f", k, sum.Averages[k])
				if v, ok := sum.Mine[k]; ok {
					line += fmt.Sprintf("  (vous %.0f)", v)
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "has-responded", false, "only check whether the token's account has responded")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
