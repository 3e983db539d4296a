package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/galley/internal/fetch"
	"github.com/five82/galley/internal/state"
)

const feedJSON = `{"recipes":[{"cuisine":"Malaysian","name":"Apam Balik",
	"photo_url_large":"https://example.com/l.jpg","photo_url_small":"https://example.com/s.jpg",
	"uuid":"1"}]}`

type countingTransport struct {
	calls atomic.Int32
	err   error
}

func (c *countingTransport) Get(context.Context, string) ([]byte, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return []byte(feedJSON), nil
}

func TestStartPoller_DisabledWithoutInterval(t *testing.T) {
	tr := &countingTransport{}
	svc := fetch.New(tr, fetch.Options{Endpoint: "https://example.com/recipes.json"})

	done := StartPoller(context.Background(), svc, 0, nil)
	select {
	case <-done:
	default:
		t.Fatal("disabled poller should report done immediately")
	}
	assert.Zero(t, tr.calls.Load())
}

func TestStartPoller_RefreshesUntilCancelled(t *testing.T) {
	tr := &countingTransport{}
	svc := fetch.New(tr, fetch.Options{Endpoint: "https://example.com/recipes.json"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := StartPoller(ctx, svc, 10*time.Millisecond, nil)
	require.Eventually(t, func() bool { return tr.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
	svc.Wait()
	assert.True(t, svc.Current().HasFeed())
}

func TestStartPoller_KeepsGoingAfterFailures(t *testing.T) {
	tr := &countingTransport{err: errors.New("connection refused")}
	svc := fetch.New(tr, fetch.Options{Endpoint: "https://example.com/recipes.json"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := StartPoller(ctx, svc, 10*time.Millisecond, nil)
	require.Eventually(t, func() bool { return tr.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
	svc.Wait()

	assert.GreaterOrEqual(t, svc.Current().ConsecutiveFailures, 3)
	assert.Equal(t, state.Failed, svc.Current().Phase)
}
