package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/readmegen/internal/prompt"
	"github.com/temirov/readmegen/internal/services/llm"
	"github.com/temirov/readmegen/internal/types"
	"github.com/temirov/readmegen/internal/utils"
)

const (
	defaultSummaryConcurrency = 1

	warningSummaryFailed = "summary failed; keeping file content"
)

// ErrMissingCompleter is returned when a model call is needed but no completer was configured.
var ErrMissingCompleter = errors.New("language model client is required")

// SummarizeOptions configures SummarizeRecords.
type SummarizeOptions struct {
	Concurrency int
	Logger      *zap.Logger
}

// SummarizeRecords returns a copy of records in which each record's Summary
// holds a model-written summary of its content. A record whose summary fails
// keeps its content and the failure is logged. Only cancellation of ctx is
// returned as an error.
func SummarizeRecords(ctx context.Context, records []types.FileRecord, completer llm.Completer, options SummarizeOptions) ([]types.FileRecord, error) {
	if completer == nil {
		return nil, ErrMissingCompleter
	}
	logger := utils.LoggerOrNop(options.Logger)
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = defaultSummaryConcurrency
	}

	summarized := append([]types.FileRecord(nil), records...)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for index := range summarized {
		index := index
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			record := summarized[index]
			summaryPrompt, promptError := prompt.BuildSummaryPrompt(record)
			if promptError != nil {
				logger.Warn(warningSummaryFailed, zap.String("path", record.Path), zap.Error(promptError))
				return nil
			}
			summary, completeError := completer.Complete(groupCtx, []llm.Message{
				{Role: llm.RoleSystem, Content: prompt.SummarySystemPrompt},
				{Role: llm.RoleUser, Content: summaryPrompt},
			})
			if completeError != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				logger.Warn(warningSummaryFailed, zap.String("path", record.Path), zap.Error(completeError))
				return nil
			}
			summarized[index].Summary = summary
			logger.Debug("summarized file", zap.String("path", record.Path))
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return summarized, nil
}
