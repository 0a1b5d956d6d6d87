package fangraphs

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/prospectlab/rule5-board/internal/domain/prospect"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/prospectlab/rule5-board/internal/platform/resilience"
	"github.com/prospectlab/rule5-board/internal/usecase"
)

const (
	defaultBaseURL  = "https://www.fangraphs.com/api"
	rosterPath      = "/depth-charts/roster"
	leaderboardPath = "/leaders/minor-league/data"

	// defaultUserAgent mirrors a desktop browser; the roster endpoint
	// rejects the Go default agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// rule5OptionCode marks a roster row as exposed to the draft in either
	// of the provider's two option columns.
	rule5OptionCode = "R5"

	levelAll = "ALL"
)

var errFanGraphsTransient = crerr.New("fangraphs transient failure")

// levelCodes and leagueIDs translate a display level into the leaderboard
// endpoint's query codes. The ALL league list enumerates every minor league
// the provider exposes.
var levelCodes = map[string]string{
	prospect.LevelAAA:   "11",
	prospect.LevelAA:    "12",
	prospect.LevelHighA: "13",
	prospect.LevelA:     "14",
	levelAll:            "0",
}

var leagueIDs = map[string]string{
	prospect.LevelAAA:   "11",
	prospect.LevelAA:    "12",
	prospect.LevelHighA: "13",
	prospect.LevelA:     "14",
	levelAll:            "2,4,5,6,7,8,9,10,11,14,12,13,15,16,17,18,30,32",
}

// fallbackLevels is the per-level retry order used when the combined
// all-levels leaderboard query comes back empty.
var fallbackLevels = []string{prospect.LevelAAA, prospect.LevelAA, prospect.LevelHighA, prospect.LevelA}

type statKind string

const (
	statsBatting  statKind = "bat"
	statsPitching statKind = "pit"
)

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

// FetchRoster returns the draft-exposed players on one organization's depth
// chart. The provider does not echo the organization back, so the caller's
// orgCode is stamped onto every entry.
func (c *Client) FetchRoster(ctx context.Context, orgID int, orgCode string) ([]prospect.RosterEntry, error) {
	if orgID <= 0 {
		return nil, fmt.Errorf("org id must be greater than zero")
	}
	orgCode = strings.TrimSpace(orgCode)
	if orgCode == "" {
		return nil, fmt.Errorf("org code is required")
	}

	query := map[string]string{
		"teamid":   strconv.Itoa(orgID),
		"loaddate": strconv.FormatInt(time.Now().Unix(), 10),
	}

	var rows []map[string]any
	if _, err := c.doJSON(ctx, rosterPath, query, &rows); err != nil {
		return nil, fmt.Errorf("fetch roster org=%s: %w", orgCode, err)
	}

	entries := make([]prospect.RosterEntry, 0, len(rows))
	for _, row := range rows {
		if getString(row, "options") != rule5OptionCode && getString(row, "options1") != rule5OptionCode {
			continue
		}
		entries = append(entries, prospect.RosterEntry{
			Name:        getString(row, "player"),
			Position:    prospect.PrimaryPosition(getString(row, "position")),
			Age:         prospect.NumericValue(row["age"]),
			Level:       getString(row, "mlevel"),
			Org:         orgCode,
			OrgRank:     prospect.IntValue(row["Org_Rank_Next"]),
			OverallRank: prospect.IntValue(row["Overall_Rank"]),
		})
	}

	return entries, nil
}

// FetchSeasonBatting returns one season of minor-league batting lines. The
// combined all-levels query is tried first; when it yields nothing, each
// level is fetched separately and the results concatenated.
func (c *Client) FetchSeasonBatting(ctx context.Context, season int) ([]prospect.SeasonBattingRecord, error) {
	rows, err := c.fetchLeaderboardWithFallback(ctx, statsBatting, season)
	if err != nil {
		return nil, err
	}

	records := make([]prospect.SeasonBattingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, prospect.SeasonBattingRecord{
			Name:    prospect.CleanName(getString(row, "PlayerName")),
			Level:   getString(row, "aLevel"),
			Age:     prospect.NumericValue(row["Age"]),
			G:       prospect.NumericValue(row["G"]),
			PA:      prospect.NumericValue(row["PA"]),
			AVG:     prospect.NumericValue(row["AVG"]),
			OBP:     prospect.NumericValue(row["OBP"]),
			SLG:     prospect.NumericValue(row["SLG"]),
			OPS:     prospect.NumericValue(row["OPS"]),
			HR:      prospect.NumericValue(row["HR"]),
			SB:      prospect.NumericValue(row["SB"]),
			BBPct:   prospect.NumericValue(row["BB%"]),
			KPct:    prospect.NumericValue(row["K%"]),
			WRCPlus: prospect.NumericValue(row["wRC+"]),
		})
	}

	return records, nil
}

// FetchSeasonPitching mirrors FetchSeasonBatting for pitching lines.
func (c *Client) FetchSeasonPitching(ctx context.Context, season int) ([]prospect.SeasonPitchingRecord, error) {
	rows, err := c.fetchLeaderboardWithFallback(ctx, statsPitching, season)
	if err != nil {
		return nil, err
	}

	records := make([]prospect.SeasonPitchingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, prospect.SeasonPitchingRecord{
			Name:        prospect.CleanName(getString(row, "PlayerName")),
			Level:       getString(row, "aLevel"),
			Age:         prospect.NumericValue(row["Age"]),
			G:           prospect.NumericValue(row["G"]),
			GS:          prospect.NumericValue(row["GS"]),
			IP:          prospect.NumericValue(row["IP"]),
			W:           prospect.NumericValue(row["W"]),
			L:           prospect.NumericValue(row["L"]),
			SV:          prospect.NumericValue(row["SV"]),
			HLD:         prospect.NumericValue(row["Hld"]),
			ERA:         prospect.NumericValue(row["ERA"]),
			WHIP:        prospect.NumericValue(row["WHIP"]),
			FIP:         prospect.NumericValue(row["FIP"]),
			XFIP:        prospect.NumericValue(row["xFIP"]),
			KPer9:       prospect.NumericValue(row["K/9"]),
			BBPer9:      prospect.NumericValue(row["BB/9"]),
			HRPer9:      prospect.NumericValue(row["HR/9"]),
			KMinusBBPct: prospect.NumericValue(row["K-BB%"]),
			KPct:        prospect.NumericValue(row["K%"]),
			BBPct:       prospect.NumericValue(row["BB%"]),
			GBPct:       prospect.NumericValue(row["GB%"]),
			HRPerFB:     prospect.NumericValue(row["HR/FB"]),
			LOBPct:      prospect.NumericValue(row["LOB%"]),
		})
	}

	return records, nil
}

func (c *Client) fetchLeaderboardWithFallback(ctx context.Context, kind statKind, season int) ([]map[string]any, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	rows, err := c.fetchLeaderboard(ctx, kind, season, levelAll)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(
			ctx,
			"fetch leaderboard for all levels failed, retrying level by level",
			"stats", string(kind),
			"season", season,
			"error", err,
		)
	}
	if len(rows) > 0 {
		return rows, nil
	}

	var combined []map[string]any
	for _, level := range fallbackLevels {
		levelRows, err := c.fetchLeaderboard(ctx, kind, season, level)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(
				ctx,
				"fetch leaderboard for level failed, continuing with remaining levels",
				"stats", string(kind),
				"season", season,
				"level", level,
				"error", err,
			)
			continue
		}
		combined = append(combined, levelRows...)
	}

	return combined, nil
}

func (c *Client) fetchLeaderboard(ctx context.Context, kind statKind, season int, level string) ([]map[string]any, error) {
	query := map[string]string{
		"pos":       "all",
		"level":     codeFor(levelCodes, level, "0"),
		"lg":        codeFor(leagueIDs, level, leagueIDs[levelAll]),
		"stats":     string(kind),
		"qual":      "0",
		"type":      "0",
		"team":      "",
		"season":    strconv.Itoa(season),
		"seasonEnd": strconv.Itoa(season),
		"org":       "",
		"ind":       "0",
		"splitTeam": "false",
	}

	var payload any
	if _, err := c.doJSON(ctx, leaderboardPath, query, &payload); err != nil {
		return nil, fmt.Errorf("fetch leaderboard stats=%s level=%s: %w", kind, level, err)
	}

	rows, ok := leaderboardRows(payload)
	if !ok {
		c.logger.WarnContext(ctx, "unexpected leaderboard payload shape", "stats", string(kind), "season", season, "level", level)
		return nil, nil
	}

	return rows, nil
}

// leaderboardRows accepts the endpoint's two response shapes: a bare array
// of rows or an object wrapping them under "data".
func leaderboardRows(payload any) ([]map[string]any, bool) {
	var items []any
	switch typed := payload.(type) {
	case []any:
		items = typed
	case map[string]any:
		wrapped, ok := typed["data"].([]any)
		if !ok {
			return nil, false
		}
		items = wrapped
	default:
		return nil, false
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	return rows, true
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fangraphs circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: prospect data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				if isFanGraphsCircuitFailure(reqErr) {
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
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
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
			lastErr = fmt.Errorf("%w: send request: %v", errFanGraphsTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFanGraphsTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFanGraphsTransient, resp.StatusCode, abbreviateBody(raw))
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
	c.logger.WarnContext(ctx, "fangraphs request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isFanGraphsCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFanGraphsTransient)
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

func codeFor(codes map[string]string, level, fallback string) string {
	if code, ok := codes[level]; ok {
		return code
	}
	return fallback
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
