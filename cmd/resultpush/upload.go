// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davetashner/resultpush/internal/config"
	"github.com/davetashner/resultpush/internal/gitinfo"
	"github.com/davetashner/resultpush/internal/ingest"
	"github.com/davetashner/resultpush/internal/notify"
	"github.com/davetashner/resultpush/internal/redact"
	"github.com/davetashner/resultpush/internal/remote"
	"github.com/davetashner/resultpush/internal/report"
	"github.com/davetashner/resultpush/internal/upload"
)

// Upload-specific flag values.
var (
	uploadResults      []string
	uploadMetrics      []string
	uploadFormat       string
	uploadCommitUUID   string
	uploadRev          string
	uploadBatchSize    int
	uploadEnabled      bool
	uploadTimeout      time.Duration
	uploadAPIBaseURL   string
	uploadMaxInFlight  int
	uploadGitHubStatus bool
	uploadNoProgress   bool
	uploadSummary      string
)

// uploadCmd is the subcommand that sends results for one commit.
var uploadCmd = &cobra.Command{
	Use:   "upload [path]",
	Short: "Upload analysis results and metrics for a commit",
	Long: `Upload the results of a local analysis run for one commit.

Results and metrics files are native resultpush JSON or SARIF 2.1.0. Relative
file names are resolved against the repository path (default "."). The commit
defaults to HEAD of the repository; use --commit-uuid to set it explicitly or
--rev to resolve another revision.

Credentials are read from the environment only:
  RESULTPUSH_PROJECT_TOKEN                    project token, or
  RESULTPUSH_API_TOKEN with username/project  account token

Examples:
  resultpush upload --results eslint.sarif
  resultpush upload --results gosec.json --metrics metrics.json --batch-size 500
  resultpush upload --results out.sarif --upload=false   # dry run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func init() {
	f := uploadCmd.Flags()
	f.StringArrayVar(&uploadResults, "results", nil, "results file to upload (repeatable)")
	f.StringArrayVar(&uploadMetrics, "metrics", nil, "metrics file to upload (repeatable)")
	f.StringVar(&uploadFormat, "format", "", "input format: auto, json, sarif (default auto)")
	f.StringVar(&uploadCommitUUID, "commit-uuid", "", "commit identifier to upload for (default: resolved from git)")
	f.StringVar(&uploadRev, "rev", "", "git revision to resolve when --commit-uuid is not set (default HEAD)")
	f.IntVar(&uploadBatchSize, "batch-size", 0, "maximum results per request (0 sends each tool in one request)")
	f.BoolVar(&uploadEnabled, "upload", true, "send data to the remote service; false only reads and validates input")
	f.DurationVar(&uploadTimeout, "timeout", 0, "bound for the whole upload (default 15m)")
	f.StringVar(&uploadAPIBaseURL, "api-base-url", "", "aggregation service base URL")
	f.IntVar(&uploadMaxInFlight, "max-in-flight", 0, "maximum concurrent requests (0 is unbounded)")
	f.BoolVar(&uploadGitHubStatus, "github-status", false, "post a commit status to GitHub when done (needs GITHUB_TOKEN)")
	f.BoolVar(&uploadNoProgress, "no-progress", false, "disable the progress bar")
	f.StringVar(&uploadSummary, "summary", "text", "summary format: text or json")
}

func runUpload(cmd *cobra.Command, args []string) error {
	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}
	absPath, err := resolveRepoPath(repoPath)
	if err != nil {
		return err
	}

	if uploadSummary != "text" && uploadSummary != "json" {
		return exitError(ExitInvalidArgs, "resultpush: unknown summary format %q (use text or json)", uploadSummary)
	}

	settings, err := loadSettings(cmd, absPath)
	if err != nil {
		return err
	}

	format, err := ingest.ParseFormat(settings.Format)
	if err != nil {
		return exitError(ExitInvalidArgs, "resultpush: %v", err)
	}

	files := append(append([]string{}, settings.Results...), settings.Metrics...)
	if len(files) == 0 {
		return exitError(ExitInvalidArgs, "resultpush: no input files (pass --results or --metrics, or list them in %s)", config.FileName)
	}
	doc, err := readInputs(absPath, format, files)
	if err != nil {
		return err
	}
	if res := ingest.Validate(doc); !res.Valid() {
		printValidationErrors(cmd, res)
		return exitError(ExitInvalidArgs, "resultpush: input is not valid (%d problem(s))", len(res.Errors))
	}
	toolResults, metrics := doc.Counts()
	slog.Info("input read", "tools", len(doc.Tools), "results", toolResults, "metrics", metrics)

	commitUUID := uploadCommitUUID
	if commitUUID == "" && uploadEnabled {
		commitUUID, err = gitinfo.ResolveCommit(cmdGit, absPath, uploadRev)
		if err != nil {
			slog.Warn("cannot resolve commit from git", "path", absPath, "error", err)
			commitUUID = ""
		}
	}

	creds := remote.CredentialsFromEnv(settingsLookup(settings))
	if creds != nil {
		redact.Add(creds.ProjectToken)
		redact.Add(creds.APIToken)
	}
	client := remote.NewClient(creds,
		remote.WithBaseURL(settings.APIBaseURL),
		remote.WithMaxInFlight(settings.MaxInFlight),
		remote.WithUserAgent(userAgent()),
	)

	uploader, err := upload.New(client, uploadEnabled, commitUUID, settings.BatchSize,
		upload.WithProgress(report.NewProgress(!uploadNoProgress && !quiet)),
	)
	if err != nil {
		return exitError(ExitInvalidArgs, "resultpush: %v", err)
	}
	if uploader == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "upload disabled: read %d results from %d tools and %d metrics payloads, nothing sent\n",
			toolResults, len(doc.Tools), metrics)
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
	defer cancel()

	rep := uploader.Send(ctx, doc.Tools, doc.Metrics)

	if uploadSummary == "json" {
		err = report.RenderJSON(cmd.OutOrStdout(), rep)
	} else {
		err = report.Render(cmd.OutOrStdout(), rep)
	}
	if err != nil {
		return exitError(ExitInvalidArgs, "resultpush: %v", err)
	}

	if settings.GitHubStatus {
		postGitHubStatus(cmd.Context(), absPath, rep)
	}

	if code := exitCodeFor(rep); code != ExitOK {
		return exitError(code, "")
	}
	return nil
}

// loadSettings combines the global config, the repository config, the
// environment and the command line, in increasing order of precedence.
// Flags whose zero value is meaningful override the files only when given.
func loadSettings(cmd *cobra.Command, absPath string) (config.Settings, error) {
	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "resultpush: failed to load global config (%v)", err)
	}
	repoCfg, err := config.Load(absPath)
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "resultpush: failed to load config (%v)", err)
	}
	envCfg, err := config.FromEnv(lookupEnv)
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "resultpush: invalid environment (%v)", err)
	}

	fileCfg := config.Overlay(globalCfg, repoCfg, envCfg)
	if err := config.Validate(fileCfg); err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "resultpush: %v", err)
	}

	settings, err := config.Merge(fileCfg, config.Settings{
		APIBaseURL:   uploadAPIBaseURL,
		Format:       uploadFormat,
		BatchSize:    uploadBatchSize,
		MaxInFlight:  uploadMaxInFlight,
		Timeout:      uploadTimeout,
		GitHubStatus: uploadGitHubStatus,
		Results:      uploadResults,
		Metrics:      uploadMetrics,
	})
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "resultpush: %v", err)
	}
	flags := cmd.Flags()
	if flags.Changed("batch-size") {
		settings.BatchSize = uploadBatchSize
	}
	if flags.Changed("max-in-flight") {
		settings.MaxInFlight = uploadMaxInFlight
	}
	if flags.Changed("github-status") {
		settings.GitHubStatus = uploadGitHubStatus
	}
	if settings.Timeout <= 0 {
		return config.Settings{}, exitError(ExitInvalidArgs, "resultpush: --timeout must be positive")
	}
	return settings, nil
}

// settingsLookup reads credentials from the environment, letting the
// configured username and project stand in for unset variables.
func settingsLookup(s config.Settings) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok && v != "" {
			return v, true
		}
		switch key {
		case remote.EnvUsername:
			return s.Username, s.Username != ""
		case remote.EnvProject:
			return s.Project, s.Project != ""
		}
		return "", false
	}
}

// postGitHubStatus reports the outcome of the upload on the commit. Failures
// are logged and never change the exit code.
func postGitHubStatus(ctx context.Context, absPath string, rep *upload.Report) {
	token := firstEnv("GITHUB_TOKEN", "GH_TOKEN")
	if token == "" {
		slog.Warn("github status requested but GITHUB_TOKEN is not set")
		return
	}
	redact.Add(token)
	owner, repo, err := gitinfo.GitHubRemote(cmdGit, absPath)
	if err != nil {
		if errors.Is(err, gitinfo.ErrNotGitHub) {
			slog.Warn("github status requested but origin is not on GitHub")
		} else {
			slog.Warn("cannot read origin remote", "error", err)
		}
		return
	}
	baseURL, _ := lookupEnv("GITHUB_API_URL")
	n, err := newStatusNotifier(token, owner, repo, strings.TrimSpace(baseURL))
	if err != nil {
		slog.Warn("cannot create github client", "error", err)
		return
	}
	if err := n.Notify(ctx, rep.CommitUUID, notify.FromReport(rep)); err != nil {
		slog.Warn("github status not posted", "error", err)
		return
	}
	slog.Info("github status posted", "repo", owner+"/"+repo)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v, ok := lookupEnv(k); ok && v != "" {
			return v
		}
	}
	return ""
}

// exitCodeFor maps a session report to the process exit code.
func exitCodeFor(rep *upload.Report) int {
	if rep == nil {
		return ExitOK
	}
	if rep.ConfigErr != nil {
		return ExitNothingUploaded
	}
	var data, failed int
	var endFailed bool
	for _, c := range rep.Calls {
		if c.Kind == upload.CallEndOfResults {
			endFailed = c.Err != nil
			continue
		}
		data++
		if c.Err != nil {
			failed++
		}
	}
	switch {
	case data > 0 && failed == data:
		return ExitNothingUploaded
	case failed > 0 || endFailed:
		return ExitUploadFailed
	default:
		return ExitOK
	}
}
