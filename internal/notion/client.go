package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/MikeSquared-Agency/Productivity/internal/metrics"
	"github.com/MikeSquared-Agency/Productivity/internal/scoring"
)

var ErrNoBaseURL = errors.New("notion: base url not configured")

// Database is a complete snapshot of a Notion task database.
type Database struct {
	Items []scoring.TaskRecord `json:"items"`
}

type Client interface {
	FetchDatabase(ctx context.Context, baseURL string, headers map[string]string) (*Database, error)
}

type Options struct {
	CompletedProperty string
	PriorityProperty  string
	PageSize          int
	Timeout           time.Duration
	Breaker           BreakerOptions
}

type BreakerOptions struct {
	Enabled          bool
	FailureThreshold uint32
	OpenTimeout      time.Duration
	HalfOpenRequests uint32
}

type HTTPClient struct {
	httpClient *http.Client
	opts       Options
	breaker    *gobreaker.CircuitBreaker[*Database]
	logger     *slog.Logger
}

func NewHTTPClient(opts Options, logger *slog.Logger) *HTTPClient {
	if opts.PageSize <= 0 || opts.PageSize > 100 {
		opts.PageSize = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		logger:     logger,
	}
	if opts.Breaker.Enabled {
		c.breaker = newBreaker(opts.Breaker, logger)
	}
	return c
}

func newBreaker(opts BreakerOptions, logger *slog.Logger) *gobreaker.CircuitBreaker[*Database] {
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	metrics.SetBreakerState(gobreaker.StateClosed.String())
	return gobreaker.NewCircuitBreaker[*Database](gobreaker.Settings{
		Name:        "notion",
		MaxRequests: opts.HalfOpenRequests,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.SetBreakerState(to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// FetchDatabase queries the database at baseURL, following pagination until
// the whole snapshot has been read.
func (c *HTTPClient) FetchDatabase(ctx context.Context, baseURL string, headers map[string]string) (*Database, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if c.breaker == nil {
		return c.fetchAll(ctx, baseURL, headers)
	}
	return c.breaker.Execute(func() (*Database, error) {
		return c.fetchAll(ctx, baseURL, headers)
	})
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

type property struct {
	Checkbox *bool `json:"checkbox"`
	Select   *struct {
		Name string `json:"name"`
	} `json:"select"`
}

func (c *HTTPClient) fetchAll(ctx context.Context, baseURL string, headers map[string]string) (*Database, error) {
	db := &Database{Items: []scoring.TaskRecord{}}
	cursor := ""
	for {
		resp, err := c.queryPage(ctx, baseURL, headers, cursor)
		if err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			db.Items = append(db.Items, c.toRecord(p))
		}
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return db, nil
		}
		cursor = *resp.NextCursor
	}
}

func (c *HTTPClient) queryPage(ctx context.Context, baseURL string, headers map[string]string, cursor string) (*queryResponse, error) {
	payload, err := json.Marshal(queryRequest{PageSize: c.opts.PageSize, StartCursor: cursor})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("notion: %d %s", resp.StatusCode, string(body))
	}

	var out queryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("notion: decode response: %w", err)
	}
	return &out, nil
}

// toRecord parses the completion checkbox and priority select of one page.
func (c *HTTPClient) toRecord(p page) scoring.TaskRecord {
	rec := scoring.TaskRecord{ID: p.ID}
	if prop, ok := p.Properties[c.opts.CompletedProperty]; ok && prop.Checkbox != nil {
		rec.Completed = *prop.Checkbox
	}
	if prop, ok := p.Properties[c.opts.PriorityProperty]; ok && prop.Select != nil {
		priority, err := scoring.ParsePriority(prop.Select.Name)
		if err != nil {
			c.logger.Warn("unrecognised priority option",
				"task_id", p.ID,
				"priority", prop.Select.Name,
			)
		}
		rec.Priority = priority
	}
	return rec
}
