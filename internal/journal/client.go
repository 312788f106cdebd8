package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
	"meal-checkin/internal/lib/logger/sl"
)

// Client talks to the remote append-only log published as a script endpoint.
// An empty endpoint disables it: Today returns nothing and Submit is a no-op.
type Client struct {
	log            *slog.Logger
	httpClient     *http.Client
	endpoint       string
	loc            *time.Location
	maxRetryWindow time.Duration
	retryInterval  time.Duration
	now            func() time.Time
}

func New(log *slog.Logger, endpoint string, loc *time.Location, timeout, maxRetryWindow time.Duration) *Client {
	if loc == nil {
		loc = time.Local
	}

	return &Client{
		log:            log,
		httpClient:     &http.Client{Timeout: timeout},
		endpoint:       endpoint,
		loc:            loc,
		maxRetryWindow: maxRetryWindow,
		retryInterval:  backoff.DefaultInitialInterval,
		now:            time.Now,
	}
}

func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

type (
	entry struct {
		Timestamp string     `json:"fechaHora"`
		RUT       flexString `json:"rut"`
		Name      flexString `json:"nombre"`
		Course    flexString `json:"curso"`
		Meal      flexString `json:"servicio"`
	}

	statusResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	submission struct {
		Clock  string `json:"hora"`
		Date   string `json:"fecha"`
		RUT    string `json:"rut"`
		Name   string `json:"nombre"`
		Meal   string `json:"servicio"`
		Course string `json:"curso"`
	}
)

// flexString accepts both JSON strings and numbers, sheets tend to turn
// numeric-looking cells into numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Today downloads the entries the remote log holds for the current day.
func (c *Client) Today(ctx context.Context) ([]models.Visit, error) {
	const op = "journal.Client.Today"

	if !c.Enabled() {
		return nil, nil
	}

	log := c.log.With(slog.String("op", op))

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid endpoint: %w", op, err)
	}
	q := u.Query()
	q.Set("cacheBuster", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: %d", op, apperrors.ErrJournalStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read body: %w", op, err)
	}
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '{' {
		var status statusResponse
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, fmt.Errorf("%s: failed to decode status: %w", op, err)
		}
		if status.Status == "error" {
			return nil, fmt.Errorf("%s: %w: %s", op, apperrors.ErrJournalRejected, status.Message)
		}
		return nil, fmt.Errorf("%s: %w: unexpected object response", op, apperrors.ErrJournalRejected)
	}

	// Entries are decoded one by one so a bad row only drops itself.
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s: failed to decode entries: %w", op, err)
	}

	visits := make([]models.Visit, 0, len(raw))
	for i, r := range raw {
		var e entry
		if err := json.Unmarshal(r, &e); err != nil {
			log.Warn("skipping malformed remote entry", slog.Int("index", i), sl.Err(err))
			continue
		}
		v, err := c.toVisit(e)
		if err != nil {
			log.Warn("skipping malformed remote entry", slog.String("rut", string(e.RUT)), sl.Err(err))
			continue
		}
		visits = append(visits, v)
	}

	log.Info("remote entries loaded", slog.Int("count", len(visits)))

	return visits, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
}

func (c *Client) parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, c.loc)
		}
		if err == nil {
			return t.In(c.loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (c *Client) toVisit(e entry) (models.Visit, error) {
	if e.RUT == "" {
		return models.Visit{}, fmt.Errorf("missing rut")
	}
	m := meal.Type(strings.TrimSpace(string(e.Meal)))
	if !m.Valid() {
		return models.Visit{}, fmt.Errorf("unknown meal %q", e.Meal)
	}
	ts, err := c.parseTimestamp(e.Timestamp)
	if err != nil {
		return models.Visit{}, err
	}

	return models.Visit{
		ID:           uuid.NewString(),
		RUT:          string(e.RUT),
		Name:         string(e.Name),
		Course:       string(e.Course),
		Meal:         m,
		Date:         ts.Format(time.DateOnly),
		Clock:        meal.FormatClock(ts),
		RegisteredAt: ts,
		Source:       models.SourceRemote,
	}, nil
}

// Submit appends a visit to the remote log, retrying transient failures with
// exponential backoff until the retry window elapses.
func (c *Client) Submit(ctx context.Context, v models.Visit) error {
	const op = "journal.Client.Submit"

	if !c.Enabled() {
		return nil
	}

	payload, err := json.Marshal(submission{
		Clock:  v.Clock,
		Date:   v.Date,
		RUT:    v.RUT,
		Name:   v.Name,
		Meal:   string(v.Meal),
		Course: v.Course,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := c.log.With(slog.String("op", op), slog.String("rut", v.RUT))

	send := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %d", apperrors.ErrJournalStatus, resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("%w: %d", apperrors.ErrJournalStatus, resp.StatusCode))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxElapsedTime = c.maxRetryWindow

	var b backoff.BackOff = policy
	if c.maxRetryWindow <= 0 {
		b = backoff.WithMaxRetries(policy, 0)
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("remote write failed, retrying", sl.Err(err), slog.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(send, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("remote write accepted")

	return nil
}
