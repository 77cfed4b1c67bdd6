// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package upload sends analysis results and metrics for one commit to the
// remote aggregation service: it validates the preconditions of an upload,
// filters results through the remote configuration, splits them into
// batches, dispatches every batch concurrently and signals the end of the
// upload once all calls have settled.
package upload

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/resultpush/internal/remote"
	"github.com/davetashner/resultpush/internal/results"
)

// DefaultBatchSize is used when no positive batch size is configured. It is
// large enough that any realistic result set fits in one batch.
const DefaultBatchSize = math.MaxInt32

// Errors returned by New. The messages are shown to users verbatim.
var (
	ErrNoCredentials = errors.New("No credentials found.") //nolint:staticcheck // user-facing message
	ErrNoCommit      = errors.New("No commit found.")      //nolint:staticcheck // user-facing message
)

// Uploader sends the results of one upload session (one commit).
type Uploader struct {
	client     remote.Client
	commitUUID string
	batchSize  int
	progress   Progress
	logger     *slog.Logger
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithProgress reports dispatched calls to p.
func WithProgress(p Progress) Option {
	return func(u *Uploader) {
		if p != nil {
			u.progress = p
		}
	}
}

// WithLogger sets the logger used for session messages.
func WithLogger(l *slog.Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.logger = l
		}
	}
}

// New validates the preconditions of an upload and returns an Uploader.
//
// When upload is false it returns (nil, nil) whatever the other arguments: no
// upload was requested. Otherwise a nil client yields ErrNoCredentials and an
// empty commitUUID yields ErrNoCommit. A batchSize of zero or less selects
// DefaultBatchSize.
func New(client remote.Client, upload bool, commitUUID string, batchSize int, opts ...Option) (*Uploader, error) {
	if !upload {
		return nil, nil
	}
	if client == nil {
		return nil, ErrNoCredentials
	}
	if commitUUID == "" {
		return nil, ErrNoCommit
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	u := &Uploader{
		client:     client,
		commitUUID: commitUUID,
		batchSize:  batchSize,
		progress:   NoProgress,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// CommitUUID returns the commit the session uploads for.
func (u *Uploader) CommitUUID() string { return u.commitUUID }

// BatchSize returns the effective batch size.
func (u *Uploader) BatchSize() int { return u.batchSize }

// CallKind identifies the remote operation of a dispatched call.
type CallKind string

// Remote call kinds.
const (
	CallResults      CallKind = "results"
	CallMetrics      CallKind = "metrics"
	CallEndOfResults CallKind = "end-of-results"
)

// Call is the outcome of one remote call of a session.
type Call struct {
	Kind CallKind

	// Target is the tool name for results and the language for metrics.
	Target string

	// Batch is the 1-based batch number of a results call, out of Batches.
	Batch   int
	Batches int

	// Items counts results in a results batch or metrics payloads in a
	// metrics call. Files counts the files of a results batch.
	Items int
	Files int

	Err error
}

// Report describes a finished upload session.
type Report struct {
	Session    string
	CommitUUID string

	// ConfigErr is set when the remote configuration could not be fetched.
	ConfigErr error

	// SkippedTools lists tools excluded by the remote configuration.
	SkippedTools []string

	// Calls are in dispatch order: tools in input order with their batches
	// in order, then metrics in input order, then the end-of-results signal.
	Calls []Call

	Duration time.Duration
}

// Err returns the first failure of the session in dispatch order, or nil.
func (r *Report) Err() error {
	if r.ConfigErr != nil {
		return r.ConfigErr
	}
	for _, c := range r.Calls {
		if c.Err != nil {
			return c.Err
		}
	}
	return nil
}

// SendResults uploads every tool's results and every language's metrics,
// then sends the end-of-results signal. It returns the first failure in
// dispatch order, or nil when every call succeeded.
func (u *Uploader) SendResults(ctx context.Context, toolResults []results.ToolResults, metricsResults []results.MetricsResults) error {
	report := u.Send(ctx, toolResults, metricsResults)
	return report.Err()
}

// pendingCall is a planned remote call.
type pendingCall struct {
	call Call
	run  func(ctx context.Context) error
}

// Send is SendResults returning the full session report.
func (u *Uploader) Send(ctx context.Context, toolResults []results.ToolResults, metricsResults []results.MetricsResults) *Report {
	start := time.Now()
	report := &Report{Session: uuid.NewString(), CommitUUID: u.commitUUID}
	log := u.logger.With("commit", u.commitUUID, "session", report.Session)

	cfg, err := resolveConfiguration(ctx, u.client)
	if err != nil {
		log.Error("cannot resolve remote configuration, no results will be sent", "error", err)
		report.ConfigErr = err
		u.progress.Start(1)
		report.Calls = append(report.Calls, u.endOfResults(ctx, log))
		u.progress.Done()
		report.Duration = time.Since(start)
		return report
	}

	pending, skipped := u.plan(cfg, toolResults, metricsResults)
	report.SkippedTools = skipped
	for _, name := range skipped {
		log.Info("tool not enabled remotely, skipping its results", "tool", name)
	}
	log.Info("uploading results", "calls", len(pending), "batch_size", u.batchSize)

	u.progress.Start(len(pending) + 1)
	report.Calls = u.dispatch(ctx, log, pending)
	report.Calls = append(report.Calls, u.endOfResults(ctx, log))
	u.progress.Done()

	report.Duration = time.Since(start)
	if err := report.Err(); err != nil {
		log.Warn("upload finished with failures", "error", err, "duration", report.Duration)
	} else {
		log.Info("upload finished", "duration", report.Duration)
	}
	return report
}

// plan builds the remote calls for a session in dispatch order and returns
// the names of tools the configuration excluded.
func (u *Uploader) plan(cfg *remote.ProjectConfiguration, toolResults []results.ToolResults, metricsResults []results.MetricsResults) ([]pendingCall, []string) {
	var pending []pendingCall
	var skipped []string

	for _, tr := range toolResults {
		if len(tr.Results) == 0 {
			continue
		}
		filtered, ok := Filter(cfg, tr)
		if !ok {
			skipped = append(skipped, tr.Tool)
			continue
		}
		batches := Plan(results.Normalize(filtered.Results), u.batchSize)
		for i, batch := range batches {
			tool := tr.Tool
			files := results.GroupByFile(batch)
			pending = append(pending, pendingCall{
				call: Call{
					Kind: CallResults, Target: tool,
					Batch: i + 1, Batches: len(batches),
					Items: len(batch), Files: len(files),
				},
				run: func(ctx context.Context) error {
					return u.client.SendRemoteResults(ctx, tool, u.commitUUID, files)
				},
			})
		}
	}

	for _, mr := range metricsResults {
		if len(mr.Metrics) == 0 {
			continue
		}
		language, metrics := mr.Language, mr.Metrics
		pending = append(pending, pendingCall{
			call: Call{Kind: CallMetrics, Target: language, Items: len(metrics)},
			run: func(ctx context.Context) error {
				return u.client.SendRemoteMetrics(ctx, language, u.commitUUID, metrics)
			},
		})
	}

	return pending, skipped
}

// dispatch runs every pending call concurrently and waits for all of them.
// A failed call does not cancel the others; each outcome is stored in the
// slot of its call so ordering does not depend on completion time.
func (u *Uploader) dispatch(ctx context.Context, log *slog.Logger, pending []pendingCall) []Call {
	calls := make([]Call, len(pending))
	var g errgroup.Group
	for i, p := range pending {
		calls[i] = p.call
		g.Go(func() error {
			err := p.run(ctx)
			calls[i].Err = err
			if err != nil {
				log.Warn("remote call failed", "kind", p.call.Kind, "target", p.call.Target,
					"batch", p.call.Batch, "error", err)
			} else {
				log.Debug("remote call succeeded", "kind", p.call.Kind, "target", p.call.Target,
					"batch", p.call.Batch, "items", p.call.Items)
			}
			u.progress.Increment()
			return nil
		})
	}
	_ = g.Wait()
	return calls
}

// endOfResults sends the end-of-results signal for the session's commit.
func (u *Uploader) endOfResults(ctx context.Context, log *slog.Logger) Call {
	call := Call{Kind: CallEndOfResults, Target: u.commitUUID}
	call.Err = u.client.SendEndOfResults(ctx, u.commitUUID)
	if call.Err != nil {
		log.Warn("end of results signal failed", "error", call.Err)
	}
	u.progress.Increment()
	return call
}
