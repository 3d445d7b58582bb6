package productivity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Productivity/internal/hermes"
	"github.com/MikeSquared-Agency/Productivity/internal/metrics"
	"github.com/MikeSquared-Agency/Productivity/internal/notion"
	"github.com/MikeSquared-Agency/Productivity/internal/parameter"
	"github.com/MikeSquared-Agency/Productivity/internal/scoring"
	"github.com/MikeSquared-Agency/Productivity/internal/store"
)

var (
	ErrConfigurationUnavailable = errors.New("notion configuration unavailable")
	ErrFetchFailed              = errors.New("notion database fetch failed")
	ErrEmptyDatabase            = fmt.Errorf("%w: database has no items", ErrFetchFailed)
)

// Calculation triggers, recorded on published events.
const (
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
	TriggerEvent    = "event"
)

type ParameterLookup interface {
	FindByDescription(ctx context.Context, description string) (*store.Parameter, error)
}

type Scorer interface {
	ComputeScore(tasks []scoring.TaskRecord) scoring.Result
}

type ResultSaver interface {
	SaveProductivity(ctx context.Context, p *store.Productivity) error
}

// Calculator runs one fetch, score and persist pass per call.
type Calculator struct {
	params  ParameterLookup
	fetcher notion.Client
	scorer  Scorer
	saver   ResultSaver
	hermes  hermes.Client
	logger  *slog.Logger
}

func NewCalculator(p ParameterLookup, f notion.Client, sc Scorer, s ResultSaver, h hermes.Client, logger *slog.Logger) *Calculator {
	return &Calculator{
		params:  p,
		fetcher: f,
		scorer:  sc,
		saver:   s,
		hermes:  h,
		logger:  logger,
	}
}

// Calculate never returns an error: every failure is folded into the
// failure Response.
func (c *Calculator) Calculate(ctx context.Context, trigger string) Response {
	db, err := c.findNotionDatabase(ctx)
	if err != nil {
		outcome := metrics.OutcomeFetchFailure
		if errors.Is(err, ErrConfigurationUnavailable) {
			outcome = metrics.OutcomeConfigError
		}
		metrics.Calculations.WithLabelValues(outcome).Inc()
		c.logger.Error("productivity calculation aborted", "trigger", trigger, "reason", outcome, "error", err)
		c.publish(ctx, hermes.SubjectScoreFailed, hermes.ScoreFailedEvent{
			Reason:    outcome,
			Error:     err.Error(),
			Trigger:   trigger,
			Timestamp: time.Now().UTC(),
		})
		return FailureResponse(err)
	}

	start := time.Now()
	result := c.scorer.ComputeScore(db.Items)
	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	metrics.TasksScored.Add(float64(result.TotalItemCount))
	metrics.UnprioritizedTasks.Add(float64(result.UnprioritizedItemCount))
	metrics.WeightedScore.WithLabelValues("completed").Set(float64(result.WeightedCompletedScore))
	metrics.WeightedScore.WithLabelValues("total").Set(float64(result.WeightedTotalScore))
	metrics.CompletionPercent.Set(result.CompletionPercent)

	record := c.save(ctx, result)

	evt := hermes.ScoreCalculatedEvent{
		WeightedCompletedScore: result.WeightedCompletedScore,
		WeightedTotalScore:     result.WeightedTotalScore,
		CompletedItemCount:     result.CompletedItemCount,
		TotalItemCount:         result.TotalItemCount,
		UnprioritizedItemCount: result.UnprioritizedItemCount,
		CompletionPercent:      result.CompletionPercent,
		ComputedAt:             result.ComputedAt,
		Trigger:                trigger,
	}
	if record != nil {
		evt.ID = record.ID.String()
	}
	c.publish(ctx, hermes.SubjectScoreCalculated, evt)

	metrics.Calculations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.logger.Info("productivity calculated",
		"trigger", trigger,
		"weighted_completed", result.WeightedCompletedScore,
		"weighted_total", result.WeightedTotalScore,
		"completed_items", result.CompletedItemCount,
		"total_items", result.TotalItemCount,
		"completion_percent", result.CompletionPercent,
	)
	return SuccessResponse(result)
}

func (c *Calculator) findNotionDatabase(ctx context.Context) (*notion.Database, error) {
	baseURL, err := c.params.FindByDescription(ctx, store.ParamURLBaseNotion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigurationUnavailable, err)
	}
	headersParam, err := c.params.FindByDescription(ctx, store.ParamHeadersNotion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigurationUnavailable, err)
	}

	headers := parameter.ExtractNotionHeaders(headersParam)
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no %s", ErrConfigurationUnavailable, store.ParamHeadersNotion)
	}
	if baseURL == nil || strings.TrimSpace(baseURL.Value) == "" {
		return nil, fmt.Errorf("%w: no %s", ErrConfigurationUnavailable, store.ParamURLBaseNotion)
	}

	start := time.Now()
	db, err := c.fetcher.FetchDatabase(ctx, strings.TrimSpace(baseURL.Value), headers)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if db == nil {
		return nil, ErrFetchFailed
	}
	if len(db.Items) == 0 {
		return nil, ErrEmptyDatabase
	}
	c.logger.Debug("notion database fetched", "items", len(db.Items), "headers", parameter.HeaderNames(headers))
	return db, nil
}

// save hands the result to the store. Failures are logged and counted only;
// they never change the calculation response.
func (c *Calculator) save(ctx context.Context, r scoring.Result) *store.Productivity {
	record := ToRecord(r)
	if err := c.saver.SaveProductivity(ctx, record); err != nil {
		metrics.PersistFailures.Inc()
		c.logger.Error("failed to save productivity", "error", err)
		return nil
	}
	return record
}

func (c *Calculator) publish(ctx context.Context, subject string, data interface{}) {
	if c.hermes == nil {
		return
	}
	if err := c.hermes.Publish(ctx, subject, data); err != nil {
		c.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// ToRecord maps a scoring result onto its persisted form.
func ToRecord(r scoring.Result) *store.Productivity {
	return &store.Productivity{
		Productivity:      r.WeightedCompletedScore,
		Total:             r.WeightedTotalScore,
		CompletedItems:    r.CompletedItemCount,
		TotalItems:        r.TotalItemCount,
		CompletionPercent: r.CompletionPercent,
		SaveDate:          r.ComputedAt,
	}
}
