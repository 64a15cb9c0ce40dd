// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/config"
	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/metrics"
	"github.com/tomtom215/bookpath/internal/models"
)

const (
	defaultMemoQueueSize = 64
	defaultMemoTimeout   = 30 * time.Second

	memoResultStoreFailed = "store_failed"
	memoResultDropped     = "dropped"
)

// MemoSummarizer turns a memo into a structured summary. It never fails;
// the second result labels the outcome.
type MemoSummarizer interface {
	SummarizeMemo(ctx context.Context, memo string) (models.MemoSummary, string)
}

// MemoSummaryStore persists a finished summary.
type MemoSummaryStore interface {
	SetMemoSummary(ctx context.Context, id string, summary models.MemoSummary) error
}

// MemoJob is one memo waiting to be summarized.
type MemoJob struct {
	LogID string
	Memo  string
}

// MemoSummaryService summarizes reading-log memos in the background.
//
// Jobs are queued by Enqueue and processed one at a time. The queue lives on
// the service, so jobs survive a supervisor restart of Serve. A full queue
// drops new jobs; the log is saved either way.
type MemoSummaryService struct {
	jobs       chan MemoJob
	summarizer MemoSummarizer
	store      MemoSummaryStore
	timeout    time.Duration
	logger     zerolog.Logger
	name       string
}

// NewMemoSummaryService creates the memo worker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMemoSummaryService(summarizer MemoSummarizer, store MemoSummaryStore, cfg config.MemoConfig, logger zerolog.Logger) *MemoSummaryService {
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultMemoQueueSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMemoTimeout
	}
	return &MemoSummaryService{
		jobs:       make(chan MemoJob, size),
		summarizer: summarizer,
		store:      store,
		timeout:    timeout,
		logger:     logging.ForComponent(logger, logging.ComponentMemoWorker),
		name:       "memo-worker",
	}
}

// Enqueue schedules a memo summary. It never blocks and reports whether the
// job was accepted.
func (s *MemoSummaryService) Enqueue(logID, memo string) bool {
	select {
	case s.jobs <- MemoJob{LogID: logID, Memo: memo}:
		metrics.MemoSummaryQueueDepth.Set(float64(len(s.jobs)))
		return true
	default:
		metrics.RecordMemoSummaryJob(memoResultDropped)
		s.logger.Warn().Str("log_id", logID).Int("capacity", cap(s.jobs)).Msg("Memo summary queue full, dropping job")
		return false
	}
}

// Pending returns the number of queued jobs.
func (s *MemoSummaryService) Pending() int {
	return len(s.jobs)
}

// Serve implements suture.Service.
func (s *MemoSummaryService) Serve(ctx context.Context) error {
	s.logger.Info().Int("queue_size", cap(s.jobs)).Msg("memo worker starting")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Int("pending", len(s.jobs)).Msg("memo worker shutting down")
			return ctx.Err()
		case job := <-s.jobs:
			metrics.MemoSummaryQueueDepth.Set(float64(len(s.jobs)))
			s.process(ctx, job)
		}
	}
}

func (s *MemoSummaryService) process(ctx context.Context, job MemoJob) {
	ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())
	log := logging.FromContext(ctx, s.logger)

	jobCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	summary, result := s.summarizer.SummarizeMemo(jobCtx, job.Memo)

	// The summary is stored even when the deadline hit during generation.
	storeCtx, storeCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer storeCancel()
	if err := s.store.SetMemoSummary(storeCtx, job.LogID, summary); err != nil {
		metrics.RecordMemoSummaryJob(memoResultStoreFailed)
		log.Warn().Err(err).Str("log_id", job.LogID).Msg("Failed to store memo summary")
		return
	}
	metrics.RecordMemoSummaryJob(result)
	log.Debug().
		Str("log_id", job.LogID).
		Str("result", result).
		Dur("duration", time.Since(start)).
		Msg("memo summary stored")
}

// String returns the service name for logging.
func (s *MemoSummaryService) String() string {
	return s.name
}
