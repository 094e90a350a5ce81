// Package edfeed polls the course discussion feed and converts thread
// payloads to raw ingest events. It keeps only enough state to tell a new
// thread from an updated one; all real semantics live in the pipeline.
package edfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	perr "classboard/internal/platform/errors"
	"classboard/internal/platform/logger"
	ingest "classboard/internal/services/ingest/domain"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "classboard-watch"
	defaultMaxRetry  = 5
	defaultRetryBase = 500 * time.Millisecond
	defaultPageLimit = 100
)

// Options configures the Client
type Options struct {
	// BaseURL of the forum API, required
	BaseURL string
	// CourseID scopes the thread listing, required
	CourseID string
	// Token is the API bearer token, empty means unauthenticated
	Token string

	UserAgent string
	Timeout   time.Duration

	// Retry config for transient responses
	MaxRetries int
	RetryBase  time.Duration

	// PageLimit caps threads per poll
	PageLimit int
}

// Client is a minimal polling client for the forum REST surface
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger

	// cursor is the newest update time seen so far; polls ask for
	// threads at or after it
	cursor time.Time

	// state per thread id: comment count at last sight, -1 means unseen
	seen map[int64]threadState

	now   func() time.Time
	sleep func(time.Duration)
}

type threadState struct {
	updatedAt    time.Time
	commentCount int
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) (*Client, error) {
	if o.BaseURL == "" {
		return nil, perr.InvalidArgf("edfeed base url is required")
	}
	if o.CourseID == "" {
		return nil, perr.InvalidArgf("edfeed course id is required")
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.PageLimit <= 0 {
		o.PageLimit = defaultPageLimit
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("edfeed"),
		seen:  map[int64]threadState{},
		now:   time.Now,
		sleep: time.Sleep,
	}, nil
}

// Poll fetches threads changed since the cursor and converts them to raw
// events in feed order. An empty slice with a nil error means nothing new
func (c *Client) Poll(ctx context.Context) ([]ingest.RawEvent, error) {
	page, err := c.fetchThreads(ctx)
	if err != nil {
		return nil, err
	}

	var out []ingest.RawEvent
	for _, th := range page.Threads {
		out = append(out, c.convert(th)...)
		if th.UpdatedAt.After(c.cursor) {
			c.cursor = th.UpdatedAt
		}
	}
	return out, nil
}

// convert turns one thread payload into zero or more events. Comment counts
// only ever produce synthetic comment events; the feed does not expose
// comment bodies on the listing
func (c *Client) convert(th Thread) []ingest.RawEvent {
	id := strconv.FormatInt(th.ID, 10)
	prev, known := c.seen[th.ID]

	var out []ingest.RawEvent
	switch {
	case !known:
		out = append(out, c.threadEvent(ingest.ThreadCreated, id, th))
	case th.UpdatedAt.After(prev.updatedAt):
		out = append(out, c.threadEvent(ingest.ThreadUpdated, id, th))
	}

	base := 0
	if known {
		base = prev.commentCount
	}
	for i := base; i < th.CommentCount; i++ {
		out = append(out, ingest.RawEvent{
			Kind:      ingest.CommentAdded,
			ID:        uuid.NewString(),
			ParentID:  id,
			Timestamp: th.UpdatedAt,
		})
	}

	c.seen[th.ID] = threadState{updatedAt: th.UpdatedAt, commentCount: th.CommentCount}
	return out
}

func (c *Client) threadEvent(kind ingest.EventKind, id string, th Thread) ingest.RawEvent {
	ts := th.UpdatedAt
	if kind == ingest.ThreadCreated {
		ts = th.CreatedAt
	}
	return ingest.RawEvent{
		Kind:      kind,
		ID:        id,
		Author:    th.User.Name,
		Title:     th.Title,
		Body:      th.Document,
		Category:  th.Category,
		URL:       th.URL,
		Timestamp: ts,
	}
}

func (c *Client) fetchThreads(ctx context.Context) (threadsPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.opts.PageLimit))
	q.Set("sort", "new")
	if !c.cursor.IsZero() {
		q.Set("since", c.cursor.UTC().Format(time.RFC3339))
	}
	path := fmt.Sprintf("/api/courses/%s/threads?%s", url.PathEscape(c.opts.CourseID), q.Encode())

	var page threadsPage
	body, err := c.get(ctx, path)
	if err != nil {
		return page, err
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return page, perr.JSONErrf("edfeed threads payload: %v", err)
	}
	return page, nil
}

// get issues one GET with auth headers and retry on transient failures
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	u := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "edfeed new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "edfeed request failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("edfeed transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, perr.Wrapf(readErr, perr.ErrorCodeUnavailable, "edfeed read body failed")
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			if !c.shouldRetry(attempts) {
				return nil, perr.Unavailablef("edfeed status %d", resp.StatusCode)
			}
			back := c.backoff(attempts)
			c.log.Warn().Int("status", resp.StatusCode).Dur("retry_in", back).Msg("edfeed retryable status")
			c.sleep(back)
			attempts++
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "edfeed auth rejected with status %d", resp.StatusCode)
		default:
			return nil, perr.Newf(perr.ErrorCodeUnknown, "edfeed unexpected status %d", resp.StatusCode)
		}
	}
}

func (c *Client) shouldRetry(attempts int) bool { return attempts < c.opts.MaxRetries }

// backoff is exponential from RetryBase with a 30s ceiling
func (c *Client) backoff(attempts int) time.Duration {
	d := c.opts.RetryBase << attempts
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}
