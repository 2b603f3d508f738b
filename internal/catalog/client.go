package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/rocketshoes-cart/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	maxBodySize = 1 << 20

	// consecutive failures before the breaker opens
	tripAfter = 5
)

var (
	ErrNotFound         = errors.New("catalog: not found")
	ErrUnexpectedStatus = errors.New("catalog: unexpected status")
)

// Client talks to the storefront REST API:
//
//	GET /stock/{id}    -> {"id": 1, "amount": 3}
//	GET /products/{id} -> {"id": 1, "title": "...", "price": 179.9, "image": "..."}
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group // collapses concurrent lookups of the same product
	log     *logrus.Entry
}

func NewClient(baseURL string, timeout time.Duration, log *logrus.Entry) *Client {
	st := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("CircuitBreaker[%s] state changed from %s to %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker[[]byte](st),
		log:     log,
	}
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	body, err := c.get(ctx, fmt.Sprintf("/stock/%d", productID))
	if err != nil {
		return domain.Stock{}, fmt.Errorf("failed to get stock %d: %w", productID, err)
	}

	var stock domain.Stock
	if err := json.Unmarshal(body, &stock); err != nil {
		return domain.Stock{}, fmt.Errorf("unmarshal stock failed: %w", err)
	}
	return stock, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	v, err, _ := c.sfg.Do(strconv.FormatInt(productID, 10), func() (interface{}, error) {
		body, err := c.get(ctx, fmt.Sprintf("/products/%d", productID))
		if err != nil {
			return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
		}

		var product domain.Product
		if err := json.Unmarshal(body, &product); err != nil {
			return nil, fmt.Errorf("unmarshal product failed: %w", err)
		}
		return product, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.cb.Execute(func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel() // releases resources if the request completes before timeout elapses

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
		}

		return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.log.WithError(err).WithField("path", path).Debug("catalog request failed")
	}
	return body, err
}
