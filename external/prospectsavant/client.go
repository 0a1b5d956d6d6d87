package prospectsavant

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/prospectlab/rule5-board/internal/domain/prospect"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/prospectlab/rule5-board/internal/platform/resilience"
	"github.com/prospectlab/rule5-board/internal/usecase"
)

// The provider publishes percentile scores for the one level it models.
// The trailing path segments are its fixed qualification and age bounds.
const (
	defaultBaseURL  = "https://oriolebird.pythonanywhere.com"
	hittersPathFmt  = "/leaders/hitters/AAA/%d/0/16/28"
	pitchersPathFmt = "/leaders/pitchers/AAA/%d/0/16/28"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var errProspectSavantTransient = crerr.New("prospectsavant transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type savantEnvelope struct {
	Data []map[string]any `json:"data"`
}

// FetchHitters returns the season's hitter percentile records. The raw
// score arrives as a fraction and is rescaled to 0-100 exactly once here.
func (c *Client) FetchHitters(ctx context.Context, season int) ([]prospect.AdvancedMetricRecord, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	var envelope savantEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf(hittersPathFmt, season), &envelope); err != nil {
		return nil, fmt.Errorf("fetch savant hitters season=%d: %w", season, err)
	}

	records := make([]prospect.AdvancedMetricRecord, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		records = append(records, prospect.AdvancedMetricRecord{
			Name:          getString(row, "name"),
			Age:           prospect.NumericValue(row["age"]),
			Position:      prospect.PrimaryPosition(getString(row, "Position")),
			ProspectScore: scaleScore(prospect.NumericValue(row["score_p"])),
			PlayerType:    prospect.PlayerTypeHitter,
			XBA:           prospect.NumericValue(row["xba"]),
			XSLG:          prospect.NumericValue(row["xslg"]),
			XWOBA:         prospect.NumericValue(row["xwoba"]),
			EV:            prospect.NumericValue(row["ev"]),
			BarrelPct:     prospect.NumericValue(row["barrelpa"]),
			ChasePct:      prospect.NumericValue(row["chaserate"]),
			KPct:          prospect.NumericValue(row["krate"]),
			BBPct:         prospect.NumericValue(row["bbrate"]),
			SprintSpeed:   prospect.NumericValue(row["spd"]),
			PA:            prospect.NumericValue(row["pa"]),
		})
	}

	return records, nil
}

// FetchPitchers returns the season's pitcher percentile records. Rows
// without a listed position default to P.
func (c *Client) FetchPitchers(ctx context.Context, season int) ([]prospect.AdvancedMetricRecord, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	var envelope savantEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf(pitchersPathFmt, season), &envelope); err != nil {
		return nil, fmt.Errorf("fetch savant pitchers season=%d: %w", season, err)
	}

	records := make([]prospect.AdvancedMetricRecord, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		position := getString(row, "Position")
		if position == "" {
			position = "P"
		}
		records = append(records, prospect.AdvancedMetricRecord{
			Name:          getString(row, "name"),
			Age:           prospect.NumericValue(row["age"]),
			Position:      prospect.PrimaryPosition(position),
			ProspectScore: scaleScore(prospect.NumericValue(row["score_p"])),
			PlayerType:    prospect.PlayerTypePitcher,
			MaxVelo:       prospect.NumericValue(row["max_velo"]),
			XBA:           prospect.NumericValue(row["xba"]),
			XSLG:          prospect.NumericValue(row["xslg"]),
			XWOBA:         prospect.NumericValue(row["xwoba"]),
			KPct:          prospect.NumericValue(row["krate"]),
			BBPct:         prospect.NumericValue(row["bbrate"]),
			ChasePct:      prospect.NumericValue(row["chaserate"]),
			WhiffPct:      prospect.NumericValue(row["whiffrate"]),
			IP:            prospect.NumericValue(row["ip"]),
		})
	}

	return records, nil
}

// scaleScore turns the provider's 0-1 percentile fraction into 0-100.
func scaleScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	scaled := *score * 100
	return &scaled
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "prospectsavant circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: advanced metrics provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				if isProspectSavantCircuitFailure(reqErr) {
					c.breaker.RecordFailure()
				} else {
					c.breaker.RecordSuccess()
				}
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", defaultUserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errProspectSavantTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProspectSavantTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProspectSavantTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
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
	c.logger.WarnContext(ctx, "prospectsavant request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isProspectSavantCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errProspectSavantTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
