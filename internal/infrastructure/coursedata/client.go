// Package coursedata implements the course reference data provider against
// the third-party course API. Tee data changes rarely, so responses are
// cached in-process and lookups for the same tee collapse to one request.
package coursedata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairwayclub/league-engine/internal/domain/course"
	"github.com/fairwayclub/league-engine/internal/platform/cache"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
	"github.com/fairwayclub/league-engine/internal/platform/resilience"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 6 * time.Hour
)

var errTeeNotFound = crerr.New("tee not found")

type ClientConfig struct {
	HTTPClient          *http.Client
	BaseURL             string
	Token               string
	Timeout             time.Duration
	CacheTTL            time.Duration
	CircuitEnabled      bool
	CircuitFailureCount int
	CircuitOpenTimeout  time.Duration
	Logger              *logging.Logger
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	breaker        *resilience.Breaker
	circuitEnabled bool
	tees           *cache.Store[course.Tee]
	logger         *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	failureCount := cfg.CircuitFailureCount
	if failureCount < 1 {
		failureCount = 5
	}
	openTimeout := cfg.CircuitOpenTimeout
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		breaker:        resilience.NewBreaker(failureCount, openTimeout),
		circuitEnabled: cfg.CircuitEnabled,
		tees:           cache.NewStore[course.Tee](cacheTTL),
		logger:         logger,
	}
}

type teeEnvelope struct {
	Data teePayload `json:"data"`
}

type teePayload struct {
	ID           string        `json:"id"`
	CourseID     string        `json:"courseId"`
	Name         string        `json:"name"`
	CourseRating float64       `json:"courseRating"`
	SlopeRating  int           `json:"slopeRating"`
	Par          int           `json:"par"`
	Holes        []holePayload `json:"holes"`
}

type holePayload struct {
	Number      int `json:"number"`
	Par         int `json:"par"`
	Yardage     int `json:"yardage"`
	StrokeIndex int `json:"strokeIndex"`
}

func (c *Client) GetTee(ctx context.Context, courseID, teeID string) (course.Tee, bool, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(teeID) == "" {
		return course.Tee{}, false, nil
	}

	key := courseID + "/" + teeID
	tee, err := c.tees.GetOrLoad(ctx, key, func() (course.Tee, error) {
		return c.fetchTee(ctx, courseID, teeID)
	})
	if err != nil {
		if crerr.Is(err, errTeeNotFound) {
			return course.Tee{}, false, nil
		}
		return course.Tee{}, false, err
	}
	return tee, true, nil
}

func (c *Client) fetchTee(ctx context.Context, courseID, teeID string) (course.Tee, error) {
	var tee course.Tee
	call := func() error {
		fetched, err := c.doFetchTee(ctx, courseID, teeID)
		if err != nil {
			return err
		}
		tee = fetched
		return nil
	}

	var err error
	if c.circuitEnabled {
		err = c.breaker.Do(call)
	} else {
		err = call()
	}
	if err != nil {
		return course.Tee{}, err
	}
	return tee, nil
}

func (c *Client) doFetchTee(ctx context.Context, courseID, teeID string) (course.Tee, error) {
	endpoint := fmt.Sprintf("%s/v1/courses/%s/tees/%s",
		c.baseURL, url.PathEscape(courseID), url.PathEscape(teeID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return course.Tee{}, crerr.Wrap(err, "build tee request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return course.Tee{}, crerr.Wrapf(err, "fetch tee course=%s tee=%s", courseID, teeID)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return course.Tee{}, errTeeNotFound
	case resp.StatusCode != http.StatusOK:
		return course.Tee{}, crerr.Newf("course api status %d for tee course=%s tee=%s",
			resp.StatusCode, courseID, teeID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return course.Tee{}, crerr.Wrap(err, "read tee response")
	}

	var envelope teeEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return course.Tee{}, crerr.Wrap(err, "decode tee response")
	}

	tee := course.Tee{
		ID:           envelope.Data.ID,
		CourseID:     envelope.Data.CourseID,
		Name:         envelope.Data.Name,
		CourseRating: envelope.Data.CourseRating,
		SlopeRating:  envelope.Data.SlopeRating,
		Par:          envelope.Data.Par,
	}
	if tee.ID == "" {
		tee.ID = teeID
	}
	if tee.CourseID == "" {
		tee.CourseID = courseID
	}
	for _, h := range envelope.Data.Holes {
		tee.Holes = append(tee.Holes, course.HoleInfo{
			Number:      h.Number,
			Par:         h.Par,
			Yardage:     h.Yardage,
			StrokeIndex: h.StrokeIndex,
		})
	}

	if err := tee.Validate(); err != nil {
		return course.Tee{}, crerr.Wrapf(err, "course api returned invalid tee course=%s tee=%s", courseID, teeID)
	}

	c.logger.DebugContext(ctx, "tee fetched from course api",
		"course_id", courseID, "tee_id", teeID, "holes", len(tee.Holes))
	return tee, nil
}
