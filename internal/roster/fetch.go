package roster

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/models"
)

// Fetcher downloads the roster from a published spreadsheet CSV link.
type Fetcher struct {
	log        *slog.Logger
	httpClient *http.Client
	sheetURL   string
	now        func() time.Time
}

func NewFetcher(log *slog.Logger, sheetURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		log:        log,
		httpClient: &http.Client{Timeout: timeout},
		sheetURL:   sheetURL,
		now:        time.Now,
	}
}

func (f *Fetcher) Fetch(ctx context.Context) ([]models.Student, error) {
	const op = "roster.Fetcher.Fetch"

	log := f.log.With(slog.String("op", op))

	u, err := url.Parse(f.sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid sheet url: %w", op, err)
	}
	q := u.Query()
	q.Set("cacheBuster", strconv.FormatInt(f.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, apperrors.ErrRosterUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: status %d", op, apperrors.ErrRosterUnavailable, resp.StatusCode)
	}

	students, err := ParseStudents(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("roster sheet parsed", slog.Int("students", len(students)))

	return students, nil
}
