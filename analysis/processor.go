package analysis

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sentinelworks/sentinel/model"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

// PostLifecycleStore is the slice of the post store the processor needs.
// *storage.PostStore satisfies it.
type PostLifecycleStore interface {
	QueryByStatus(status model.PostStatus, limit int) ([]*model.RawPost, error)
	MarkProcessed(id string, result *model.AnalysisResult) error
	MarkError(id string, reason string) error
}

// ProcessReport summarizes one processing run.
type ProcessReport struct {
	Pending   int
	Processed int
	Errored   int
	Batches   int
}

// Processor drains pending posts through the analysis model in batches and
// reconciles every post to a terminal status.
type Processor struct {
	store     PostLifecycleStore
	client    Client
	policy    *RetryPolicy
	batchSize int
	onStatus  func(status string)
}

// NewProcessor wires a processor. policy may be nil for defaults, onStatus
// may be nil to discard progress lines.
func NewProcessor(store PostLifecycleStore, client Client, policy *RetryPolicy, batchSize int, onStatus func(status string)) *Processor {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Processor{
		store:     store,
		client:    client,
		policy:    policy,
		batchSize: batchSize,
		onStatus:  onStatus,
	}
}

func (p *Processor) report(status string) {
	Logger.Log.Info(status)
	if p.onStatus != nil {
		p.onStatus(status)
	}
}

// ProcessPendingPosts runs every pending post through analysis. Each post
// leaves in processed or error status. A batch whose retries are exhausted
// marks all of its posts errored and aborts the remaining batches.
func (p *Processor) ProcessPendingPosts(ctx context.Context) (*ProcessReport, error) {
	pending, err := p.store.QueryByStatus(model.StatusPending, 0)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load pending posts")
	}
	report := &ProcessReport{Pending: len(pending)}
	if len(pending) == 0 {
		p.report("no pending posts to process")
		return report, nil
	}

	batches := SplitIntoBatches(pending, p.batchSize)
	report.Batches = len(batches)
	for i, batch := range batches {
		p.report(formatBatchStatus(i+1, len(batches), len(batch.Posts)))

		response, err := p.policy.Do(ctx, func(ctx context.Context) (string, error) {
			return p.client.GenerateAnalysis(ctx, batch.Prompt)
		}, p.onStatus)
		if err != nil {
			p.failBatch(batch, err, report)
			return report, errors.Wrap(err, "batch analysis failed")
		}

		outcomes, err := Reconcile(batch, response)
		if err != nil {
			p.failBatch(batch, err, report)
			continue
		}
		for _, outcome := range outcomes {
			if outcome.Err != nil {
				report.Errored++
				if err := p.store.MarkError(outcome.PostId, outcome.Err.Error()); err != nil {
					Logger.Log.Error("fail to mark post errored ", outcome.PostId, ": ", err)
				}
				continue
			}
			report.Processed++
			if err := p.store.MarkProcessed(outcome.PostId, outcome.Result); err != nil {
				Logger.Log.Error("fail to mark post processed ", outcome.PostId, ": ", err)
			}
		}
	}
	p.report(formatRunStatus(report))
	return report, nil
}

func (p *Processor) failBatch(batch *BatchRequest, cause error, report *ProcessReport) {
	for _, post := range batch.Posts {
		report.Errored++
		if err := p.store.MarkError(post.Id, cause.Error()); err != nil {
			Logger.Log.Error("fail to mark post errored ", post.Id, ": ", err)
		}
	}
}

func formatBatchStatus(index, total, size int) string {
	return fmt.Sprintf("processing batch %d/%d with %d posts", index, total, size)
}

func formatRunStatus(report *ProcessReport) string {
	return fmt.Sprintf("processing run finished: %d processed, %d errored", report.Processed, report.Errored)
}
