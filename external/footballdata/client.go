package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
	"github.com/riskibarqy/gameweek-picks/internal/platform/resilience"
	"github.com/riskibarqy/gameweek-picks/internal/usecase"
)

const (
	defaultBaseURL      = "https://api.football-data.org/v4"
	defaultCompetition  = "PL"
	defaultSeason       = 2025
	defaultTimeout      = 15 * time.Second
	defaultRetryBackoff = time.Second
	maxRateLimitWait    = time.Minute
	maxResponseBodySize = 4 << 20
)

var errTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Token          string
	Competition    string
	Season         int
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	RatePerMinute  int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads gameweek fixtures and results from football-data.org v4.
type Client struct {
	httpClient   *fasthttp.Client
	baseURL      string
	token        string
	competition  string
	season       int
	timeout      time.Duration
	flightBudget time.Duration
	maxRetries   int
	retryBackoff time.Duration
	limiter      *rate.Limiter
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "gameweek-picks",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 30 * time.Second,
			MaxResponseBodySize: maxResponseBodySize,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	competition := strings.ToUpper(strings.TrimSpace(cfg.Competition))
	if competition == "" {
		competition = defaultCompetition
	}
	season := cfg.Season
	if season <= 0 {
		season = defaultSeason
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), cfg.RatePerMinute)
	}

	maxRetries := max(cfg.MaxRetries, 0)

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		token:        strings.TrimSpace(cfg.Token),
		competition:  competition,
		season:       season,
		timeout:      timeout,
		flightBudget: time.Duration(maxRetries+1) * (timeout + maxRateLimitWait),
		maxRetries:   maxRetries,
		retryBackoff: backoff,
		limiter:      limiter,
		logger:       logger,
		breaker:      resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// ListMatches returns every match of a gameweek. Upstream and decoding
// failures wrap usecase.ErrProviderUnavailable.
func (c *Client) ListMatches(ctx context.Context, gameweek int) ([]match.Match, error) {
	if gameweek <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be greater than zero", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("season", strconv.Itoa(c.season))
	query.Set("matchday", strconv.Itoa(gameweek))
	path := "/competitions/" + url.PathEscape(c.competition) + "/matches"

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("%w: list matches competition=%s season=%d gameweek=%d: %v",
			usecase.ErrProviderUnavailable, c.competition, c.season, gameweek, err)
	}

	out := make([]match.Match, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapMatch(item, gameweek))
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// The shared request is detached from the caller that started it; each
	// caller stops waiting on its own context.
	ch := c.flight.DoChan(fullURL, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightBudget)
		defer cancel()

		var raw []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(flightCtx, fullURL)
			return reqErr
		}, isCircuitFailure)
		if stderrors.Is(execErr, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(flightCtx, "football-data circuit breaker rejected request", "state", c.breaker.State())
		}
		return raw, execErr
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return res.Err
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", res.Val)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}

		status, raw, retryAfter, err := c.send(ctx, fullURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Wrapf(errTransient, "send request: %s", sanitizeSensitiveText(err.Error(), c.token))
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Wrapf(errTransient, "provider status=%d body=%s", status, describeErrorBody(raw))
		default:
			return nil, fmt.Errorf("provider status=%d body=%s", status, describeErrorBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		if retryAfter > backoff {
			backoff = min(retryAfter, maxRateLimitWait)
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// send performs one GET. The returned body is a copy owned by the caller.
func (c *Client) send(ctx context.Context, fullURL string) (int, []byte, time.Duration, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return 0, nil, 0, err
	}

	var retryAfter time.Duration
	if resp.StatusCode() == fasthttp.StatusTooManyRequests {
		retryAfter = parseResetSeconds(string(resp.Header.Peek("X-RequestCounter-Reset")))
	}
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, retryAfter, nil
}

func mapMatch(item matchItem, requestedGameweek int) match.Match {
	gameweek := requestedGameweek
	if item.Matchday != nil && *item.Matchday > 0 {
		gameweek = *item.Matchday
	}

	out := match.Match{
		ID:        item.ID,
		Gameweek:  gameweek,
		HomeTeam:  firstNonEmpty(item.HomeTeam.Name, item.HomeTeam.ShortName, item.HomeTeam.TLA),
		AwayTeam:  firstNonEmpty(item.AwayTeam.Name, item.AwayTeam.ShortName, item.AwayTeam.TLA),
		Status:    match.NormalizeStatus(item.Status),
		HomeGoals: item.Score.FullTime.Home,
		AwayGoals: item.Score.FullTime.Away,
	}
	if kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(item.UTCDate)); err == nil {
		out.KickoffAt = kickoff.UTC()
	}
	return out
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusRequestTimeout ||
		code == fasthttp.StatusTooManyRequests ||
		code >= fasthttp.StatusInternalServerError
}

func parseResetSeconds(raw string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func describeErrorBody(body []byte) string {
	var envelope errorEnvelope
	if err := sonic.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return abbreviateBody(body)
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
