package detect

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

func TestWatcher_DeliversOncePerPageLoad(t *testing.T) {
	page := parseTestPage(t, "careers.example.com", `
		<form><input type="email" name="email"></form>`)

	deliveries := 0
	var got []models.FieldCandidate
	deliver := func(ctx context.Context, candidates []models.FieldCandidate) {
		deliveries++
		got = candidates
	}

	w := NewWatcher(
		newTestDetector(t, Config{}),
		PageSourceFunc(func() *Page { return page }),
		time.Millisecond,
		deliver,
		zaptest.NewLogger(t),
	)

	ctx, cancel := context.WithCancel(context.Background())
	mutations := make(chan struct{})
	done := make(chan struct{})
	go func() {
		w.Run(ctx, mutations)
		close(done)
	}()

	// Initial settle pass plus several mutation-triggered passes.
	time.Sleep(20 * time.Millisecond)
	mutations <- struct{}{}
	mutations <- struct{}{}
	cancel()
	<-done

	assert.Equal(t, 1, deliveries, "candidates delivered at most once per page load")
	assert.Len(t, got, 1)
	assert.Equal(t, "email", got[0].Name)
}

func TestWatcher_NoDeliveryWithoutCandidates(t *testing.T) {
	page := parseTestPage(t, "example.com", `<p>no form here</p>`)

	deliveries := 0
	w := NewWatcher(
		newTestDetector(t, Config{}),
		PageSourceFunc(func() *Page { return page }),
		time.Millisecond,
		func(ctx context.Context, _ []models.FieldCandidate) { deliveries++ },
		zaptest.NewLogger(t),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	w.Run(ctx, make(chan struct{}))

	assert.Zero(t, deliveries)
}

func TestWatcher_DeliversOnLateMutation(t *testing.T) {
	// Page starts empty; the form appears only after a mutation, as with
	// client-rendered applications.
	var mu sync.Mutex
	current := parseTestPage(t, "careers.example.com", `<div id="root"></div>`)

	deliveries := 0
	w := NewWatcher(
		newTestDetector(t, Config{}),
		PageSourceFunc(func() *Page {
			mu.Lock()
			defer mu.Unlock()
			return current
		}),
		time.Millisecond,
		func(ctx context.Context, _ []models.FieldCandidate) { deliveries++ },
		zaptest.NewLogger(t),
	)

	ctx, cancel := context.WithCancel(context.Background())
	mutations := make(chan struct{})
	done := make(chan struct{})
	go func() {
		w.Run(ctx, mutations)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond) // settle pass sees the empty page

	mu.Lock()
	current = parseTestPage(t, "careers.example.com", `
		<form><input type="file" name="resume"></form>`)
	mu.Unlock()
	mutations <- struct{}{}
	cancel()
	<-done

	assert.Equal(t, 1, deliveries, "mutation pass picks up the mounted form")
}

func TestWatcher_StopsWhenMutationStreamCloses(t *testing.T) {
	page := parseTestPage(t, "example.com", `<p></p>`)
	w := NewWatcher(
		newTestDetector(t, Config{}),
		PageSourceFunc(func() *Page { return page }),
		time.Hour, // settle never fires
		func(ctx context.Context, _ []models.FieldCandidate) {},
		zaptest.NewLogger(t),
	)

	mutations := make(chan struct{})
	done := make(chan struct{})
	go func() {
		w.Run(context.Background(), mutations)
		close(done)
	}()

	close(mutations)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop when the mutation stream closed")
	}
}
