package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/loadtest"
	"github.com/okian/fairway/pkg/logger"
)

// Defaults shared by the commands.
const (
	defaultURL      = "http://localhost:8080"
	defaultShots    = 40
	defaultSessions = 50
	defaultTimeout  = 30 * time.Second
	runTimeout      = 10 * time.Minute
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fairwayctl",
		Short:         "Tooling for the fairway session ingestion server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(
				logger.WithWriter(cmd.ErrOrStderr()),
				logger.WithFormat(opts.logFormat),
			); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(newGenerateCmd(), newUploadCmd(), newLoadTestCmd())
	return root
}

func parseSource(s string) (model.Source, error) {
	if s == "" {
		return "", nil
	}
	return model.ParseSource(s)
}

func newGenerateCmd() *cobra.Command {
	var (
		out    string
		count  int
		shots  int
		source string
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic session CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := parseSource(source)
			if err != nil {
				return err
			}
			gen := loadtest.NewGenerator(seed)
			samples := make([]loadtest.Sample, 0, count)
			for i := 0; i < count; i++ {
				s, err := gen.Sample(i, src, shots)
				if err != nil {
					return err
				}
				samples = append(samples, s)
			}
			if err := loadtest.Save(out, samples); err != nil {
				return err
			}
			for _, s := range samples {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", filepath.Join(out, s.Filename), s.Source)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of files")
	cmd.Flags().IntVar(&shots, "shots", defaultShots, "shots per file")
	cmd.Flags().StringVar(&source, "source", "", "GARMIN_R10 or AWESOME_GOLF (default alternates)")
	cmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "generator seed")
	return cmd
}

func newUploadCmd() *cobra.Command {
	var (
		baseURL  string
		title    string
		location string
		source   string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a session CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseSource(source)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = filepath.Base(args[0])
			}

			client := loadtest.NewClient(baseURL, timeout)
			res, err := client.Upload(cmd.Context(), loadtest.Sample{
				Filename: filepath.Base(args[0]),
				Title:    title,
				Location: location,
				Source:   src,
				Data:     data,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session %s: %d shots, %d rows skipped, %d field errors\n",
				res.SessionID, res.ShotCount, res.SkippedRows, res.FieldErrors)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", defaultURL, "base URL of the server")
	cmd.Flags().StringVar(&title, "title", "", "session title (default file name)")
	cmd.Flags().StringVar(&location, "location", "", "session location")
	cmd.Flags().StringVar(&source, "source", "", "GARMIN_R10 or AWESOME_GOLF (default server side)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "HTTP request timeout")
	return cmd
}

func newLoadTestCmd() *cobra.Command {
	cfg := &loadtest.Config{}
	var source string
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Upload generated sessions concurrently and verify their statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := parseSource(source)
			if err != nil {
				return err
			}
			cfg.Source = src

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			st, err := loadtest.Run(ctx, cfg)
			if st != nil {
				fmt.Fprintf(cmd.OutOrStdout(),
					"uploaded %d, duplicate %d, failed %d, verified %d, mismatched %d in %s\n",
					st.Uploaded, st.Duplicate, st.Failed, st.Verified, st.Mismatched, st.Duration.Round(time.Millisecond))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", defaultURL, "base URL of the server")
	cmd.Flags().IntVarP(&cfg.Sessions, "sessions", "n", defaultSessions, "number of sessions")
	cmd.Flags().IntVar(&cfg.ShotsPerSession, "shots", defaultShots, "shots per session")
	cmd.Flags().StringVar(&source, "source", "", "GARMIN_R10 or AWESOME_GOLF (default alternates)")
	cmd.Flags().IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU()*2, "concurrent uploads")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "generator seed")
	cmd.Flags().StringVar(&cfg.OutputDir, "out", "", "keep generated files in this directory")
	cmd.Flags().BoolVar(&cfg.Cleanup, "cleanup", false, "delete uploaded sessions afterwards")
	return cmd
}
