package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/rocketshoes-cart/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func newSeededServer(t *testing.T) (*httptest.Server, *Inventory) {
	t.Helper()
	inv := NewInventory()
	Seed(inv)
	srv := httptest.NewServer(NewHandler(inv))
	t.Cleanup(srv.Close)
	return srv, inv
}

func TestClient_GetStock(t *testing.T) {
	srv, _ := newSeededServer(t)
	c := NewClient(srv.URL, time.Second, testLogger())

	stock, err := c.GetStock(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, domain.Stock{ProductID: 1, Amount: 3}, stock)
}

func TestClient_GetStock_ReflectsInventoryChanges(t *testing.T) {
	srv, inv := newSeededServer(t)
	c := NewClient(srv.URL+"/", time.Second, testLogger())

	require.NoError(t, inv.SetStock(2, 0))

	stock, err := c.GetStock(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Amount)
}

func TestClient_GetProduct(t *testing.T) {
	srv, _ := newSeededServer(t)
	c := NewClient(srv.URL, time.Second, testLogger())

	p, err := c.GetProduct(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "Tênis Adidas Duramo Lite 2.0", p.Title)
	assert.InDelta(t, 219.9, p.Price, 0.001)
	assert.Contains(t, p.ImageURL, "tenis3.jpg")
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := newSeededServer(t)
	c := NewClient(srv.URL, time.Second, testLogger())

	_, err := c.GetStock(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second, testLogger())

	_, err := c.GetStock(context.Background(), 1)

	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "one"`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second, testLogger())

	_, err := c.GetStock(context.Background(), 1)
	assert.Error(t, err)

	_, err = c.GetProduct(context.Background(), 1)
	assert.Error(t, err)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, 20*time.Millisecond, testLogger())

	start := time.Now()
	_, err := c.GetStock(context.Background(), 1)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second, testLogger())

	for i := 0; i < tripAfter; i++ {
		_, err := c.GetStock(context.Background(), 1)
		require.ErrorIs(t, err, ErrUnexpectedStatus)
	}

	_, err := c.GetStock(context.Background(), 1)

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(tripAfter), hits.Load())
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second, testLogger())

	for i := 0; i < tripAfter*2; i++ {
		_, err := c.GetProduct(context.Background(), int64(i+1))
		require.ErrorIs(t, err, ErrNotFound)
	}

	assert.Equal(t, int32(tripAfter*2), hits.Load())
}

func TestClient_ConcurrentProductLookupsShareOneRequest(t *testing.T) {
	var hits atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		entered <- struct{}{}
		<-release
		w.Write([]byte(`{"id": 4, "title": "Tênis", "price": 139.9, "image": "tenis2.jpg"}`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second, testLogger())

	const callers = 4
	var wg sync.WaitGroup
	results := make([]domain.Product, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = c.GetProduct(context.Background(), 4)
	}()
	<-entered

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetProduct(context.Background(), 4)
		}(i)
	}
	// let the followers join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(4), results[i].ID)
	}
}
