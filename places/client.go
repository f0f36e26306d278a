package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wayfarer/models"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// DefaultQueries are the text searches merged into one attraction list, in relevance order.
var DefaultQueries = []string{"top tourist attractions", "museums", "parks and gardens"}

var ErrUpstream = errors.New("places upstream error")

// Client talks to the Google Places web service.
type Client struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	queries  []string
	maxTries uint
	log      *zap.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithQueries(queries ...string) ClientOption {
	return func(c *Client) { c.queries = queries }
}

func WithMaxTries(n uint) ClientOption {
	return func(c *Client) { c.maxTries = n }
}

func NewClient(baseURL, apiKey string, log *zap.Logger, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		baseURL:  baseURL,
		apiKey:   apiKey,
		queries:  DefaultQueries,
		maxTries: 3,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textSearchResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	PriceLevel       int      `json:"price_level"`
	Types            []string `json:"types"`
	Photos           []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
	OpeningHours *struct {
		OpenNow *bool `json:"open_now"`
		Periods []struct {
			Open  periodPoint  `json:"open"`
			Close *periodPoint `json:"close"`
		} `json:"periods"`
	} `json:"opening_hours"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	EditorialSummary *struct {
		Overview string `json:"overview"`
	} `json:"editorial_summary"`
}

type periodPoint struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

func (p placeResult) toAttraction() models.Attraction {
	a := models.Attraction{
		ID:         p.PlaceID,
		Name:       p.Name,
		Location:   p.FormattedAddress,
		Rating:     p.Rating,
		Types:      p.Types,
		PriceLevel: p.PriceLevel,
		Geometry:   models.Coordinates{Latitude: p.Geometry.Location.Lat, Longitude: p.Geometry.Location.Lng},
	}
	if a.Location == "" {
		a.Location = p.Vicinity
	}
	if a.Types == nil {
		a.Types = []string{}
	}
	if len(p.Photos) > 0 && p.Photos[0].PhotoReference != "" {
		a.Photo = "/api/photos/" + url.PathEscape(p.Photos[0].PhotoReference)
	}
	if p.EditorialSummary != nil {
		a.Description = p.EditorialSummary.Overview
	}
	if oh := p.OpeningHours; oh != nil {
		a.OpenNow = oh.OpenNow
		for _, period := range oh.Periods {
			if period.Open.Day < 0 || period.Open.Day > 6 {
				continue
			}
			op := models.OpeningPeriod{Day: time.Weekday(period.Open.Day), Open: period.Open.Time}
			if period.Close != nil {
				op.Close = period.Close.Time
			}
			a.OpeningPeriods = append(a.OpeningPeriods, op)
		}
	}
	return a
}

// Attractions runs every configured text search for the city concurrently and
// merges the results, dropping duplicates and keeping query then result order.
func (c *Client) Attractions(ctx context.Context, city string) ([]models.Attraction, error) {
	batches := make([][]placeResult, len(c.queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range c.queries {
		g.Go(func() error {
			res, err := c.textSearch(gctx, q+" in "+city)
			if err != nil {
				return fmt.Errorf("search %q: %w", q, err)
			}
			batches[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := []models.Attraction{}
	for _, batch := range batches {
		for _, r := range batch {
			if r.PlaceID == "" || seen[r.PlaceID] {
				continue
			}
			seen[r.PlaceID] = true
			out = append(out, r.toAttraction())
		}
	}
	c.log.Debug("places fetched", zap.String("city", city), zap.Int("count", len(out)))
	return out, nil
}

func (c *Client) textSearch(ctx context.Context, query string) ([]placeResult, error) {
	q := url.Values{"query": {query}, "key": {c.apiKey}}
	endpoint := c.baseURL + "/textsearch/json?" + q.Encode()

	op := func() (textSearchResponse, error) {
		var body textSearchResponse
		res, err := c.get(ctx, endpoint)
		if err != nil {
			return body, err
		}
		defer res.Body.Close()
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			return body, backoff.Permanent(fmt.Errorf("decode places response: %w", err))
		}
		switch body.Status {
		case "OK", "ZERO_RESULTS":
			return body, nil
		case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
			return body, fmt.Errorf("%w: %s", ErrUpstream, body.Status)
		default:
			return body, backoff.Permanent(fmt.Errorf("%w: %s %s", ErrUpstream, body.Status, body.ErrorMessage))
		}
	}
	body, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.log.Warn("places request failed, retrying", zap.String("query", query), zap.Duration("wait", wait), zap.Error(err))
		}))
	if err != nil {
		return nil, err
	}
	return body.Results, nil
}

// get issues a GET and classifies the status: 429 and 5xx are retried, other failures are permanent.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusOK {
		return res, nil
	}
	io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
	res.Body.Close()
	err = fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode)
	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
		return nil, err
	}
	return nil, backoff.Permanent(err)
}

// Photo downloads the full-size image behind a photo reference.
func (c *Client) Photo(ctx context.Context, ref string, maxWidth int) (io.ReadCloser, error) {
	q := url.Values{"photo_reference": {ref}, "maxwidth": {strconv.Itoa(maxWidth)}, "key": {c.apiKey}}
	endpoint := c.baseURL + "/photo?" + q.Encode()
	res, err := backoff.Retry(ctx, func() (*http.Response, error) {
		return c.get(ctx, endpoint)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(c.maxTries))
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}
