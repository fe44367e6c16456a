package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"smartmap-backend/config"
)

// ErrTransport covers every failure to obtain a usable answer from the rank endpoint.
var ErrTransport = errors.New("rank endpoint communication error")

// notFoundRank is the endpoint's sentinel for "no queue entry for this name".
const notFoundRank = -1

// DefaultItemName is shown when the endpoint omits the item label.
const DefaultItemName = "대여 물품"

// Status distinguishes a found queue entry from a miss.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
)

// Result is the interpreted answer for one name.
type Result struct {
	Name     string
	Status   Status
	Rank     int
	ItemName string
}

// rankResponse is the JSON object returned by the endpoint.
type rankResponse struct {
	Rank     *int    `json:"rank"`
	ItemName *string `json:"itemName"`
}

// Client calls the external waiting-list endpoint. Requests are never retried.
type Client struct {
	http *resty.Client
	url  string
	log  *zap.Logger
}

// NewClient creates a rank endpoint client.
func NewClient(cfg config.RankingConfig, log *zap.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.HTTPProxy != "" {
		httpClient.SetProxy(cfg.HTTPProxy)
	}

	return &Client{
		http: httpClient,
		url:  cfg.URL,
		log:  log,
	}
}

// Lookup sends one request for name and interprets the answer.
func (c *Client) Lookup(ctx context.Context, name string) (Result, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("name", name).
		Get(c.url)
	if err != nil {
		c.log.Warn("rank endpoint call failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		c.log.Warn("rank endpoint returned error status", zap.Int("status_code", resp.StatusCode()))
		return Result{}, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode())
	}

	var body rankResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		c.log.Warn("rank endpoint returned malformed body", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return interpret(name, body), nil
}

func interpret(name string, body rankResponse) Result {
	if body.Rank == nil || *body.Rank == notFoundRank {
		return Result{Name: name, Status: StatusNotFound}
	}
	item := DefaultItemName
	if body.ItemName != nil && *body.ItemName != "" {
		item = *body.ItemName
	}
	return Result{Name: name, Status: StatusFound, Rank: *body.Rank, ItemName: item}
}
