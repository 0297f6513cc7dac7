package jsearch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL  = "https://jsearch.p.rapidapi.com"
	apiHost = "jsearch.p.rapidapi.com"
)

// Client talks to the JSearch aggregator on RapidAPI. JSearch merges
// postings from LinkedIn, Indeed, Glassdoor and others; there is no way to
// restrict the source, only the query.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	APIHost    string
}

func New(ctx context.Context, logger *zap.Logger, apiKey string) *Client {
	return &Client{
		ctx:     ctx,
		apiKey:  apiKey,
		APIURL:  apiURL,
		APIHost: apiHost,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) Search(params *SearchParams) (*Postings, error) {
	return c.search(params)
}
