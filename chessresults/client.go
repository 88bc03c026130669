package chessresults

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
)

const ChessResultsURL = "https://chess-results.com"

// RetryCooldown is how long callers should wait before retrying after an
// ErrScrapeInProgress rejection. This is part of the client-observable
// contract, not an internal tunable.
const RetryCooldown = 15 * time.Second

var (
	ErrInvalidSourceURL   error = errors.New("source url is not a customize list url")
	ErrUpstreamUnavailable error = errors.New("chess-results.com could not be scraped")
	ErrScrapeInProgress   error = errors.New("a scrape for this tournament is already in flight")
)

type Client interface {
	// ResolveKeys scrapes a "customize list" page and extracts the
	// tournament's identity keys, display name and the round the page is
	// currently showing.
	ResolveKeys(sourceURL string) (*model.TournamentKeys, error)
	// FetchPairings scrapes the full pairing table of one round. At most one
	// scrape per (dbKey, sidKey) is allowed in flight at a time; concurrent
	// callers get ErrScrapeInProgress.
	FetchPairings(dbKey, sidKey string, round int) ([]model.Pairing, error)
}

type client struct {
	url        string
	guard      *ScrapeGuard
	httpClient *http.Client
}

func New() (Client, error) {
	c := &client{
		url:   ChessResultsURL,
		guard: NewScrapeGuard(),
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}
	return c, nil
}

func NewForTest(url string) Client {
	return &client{
		url:   url,
		guard: NewScrapeGuard(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var sourceURLPattern = regexp.MustCompile(`^/tnr\d+\.aspx$`)

func (c *client) ResolveKeys(sourceURL string) (*model.TournamentKeys, error) {
	u, err := url.Parse(sourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || !sourceURLPattern.MatchString(u.Path) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSourceURL, sourceURL)
	}

	// Key resolution races are keyed by the source URL since the identity
	// keys are not known until the page has been scraped.
	key := "resolve|" + u.Path
	if !c.guard.TryAcquire(key) {
		return nil, ErrScrapeInProgress
	}
	defer c.guard.Release(key)

	resp, err := c.httpClient.Get(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	return parseKeysPage(resp.Body)
}

func (c *client) FetchPairings(dbKey, sidKey string, round int) ([]model.Pairing, error) {
	key := dbKey + "|" + sidKey
	if !c.guard.TryAcquire(key) {
		return nil, ErrScrapeInProgress
	}
	defer c.guard.Release(key)

	pairingsURL := fmt.Sprintf("%s/pairings.aspx?db=%s&sid=%s&rd=%d",
		c.url, url.QueryEscape(dbKey), url.QueryEscape(sidKey), round)

	resp, err := c.httpClient.Get(pairingsURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	return parsePairingsPage(resp.Body)
}
