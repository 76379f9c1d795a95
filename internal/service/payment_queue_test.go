package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProcessor captures the order requests are processed in and
// lets tests script per-cart outcomes.
type recordingProcessor struct {
	mu       sync.Mutex
	order    []int64
	receipts map[int64]string
	errs     map[int64]error
	delay    time.Duration
	active   int
	maxSeen  int
}

func (p *recordingProcessor) Process(ctx context.Context, req PaymentRequest) (string, error) {
	p.mu.Lock()
	p.active++
	if p.active > p.maxSeen {
		p.maxSeen = p.active
	}
	p.order = append(p.order, req.CartID)
	p.mu.Unlock()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	p.mu.Lock()
	p.active--
	receipt := p.receipts[req.CartID]
	err := p.errs[req.CartID]
	p.mu.Unlock()

	return receipt, err
}

func (p *recordingProcessor) processedOrder() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.order...)
}

func TestPaymentQueueProcessesOneAtATime(t *testing.T) {
	proc := &recordingProcessor{
		receipts: map[int64]string{1: "OR-1", 2: "OR-2", 3: "OR-3"},
		delay:    20 * time.Millisecond,
	}
	q := NewPaymentQueue(proc, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Start(ctx)

	var wg sync.WaitGroup
	for _, cartID := range []int64{1, 2, 3} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := q.Submit(context.Background(), PaymentRequest{UserID: 7, CartID: id, PaymentMethod: "cash"})
			assert.NoError(t, err)
		}(cartID)
	}
	wg.Wait()

	proc.mu.Lock()
	maxSeen := proc.maxSeen
	proc.mu.Unlock()
	assert.Equal(t, 1, maxSeen, "at most one request may be in flight")
	assert.Len(t, proc.processedOrder(), 3)
}

func TestPaymentQueueFIFO(t *testing.T) {
	proc := &recordingProcessor{
		receipts: map[int64]string{1: "OR-1", 2: "OR-2", 3: "OR-3"},
	}
	q := NewPaymentQueue(proc, 8)

	// Enqueue everything before the worker starts so arrival order is
	// deterministic.
	results := make([]chan string, 3)
	for i, cartID := range []int64{1, 2, 3} {
		results[i] = make(chan string, 1)
		ch := results[i]
		req := PaymentRequest{UserID: 7, CartID: cartID, PaymentMethod: "cash"}
		go func() {
			receipt, err := q.Submit(context.Background(), req)
			assert.NoError(t, err)
			ch <- receipt
		}()
		// Wait for this submission to land in the buffer before the next.
		require.Eventually(t, func() bool {
			return len(q.requests) >= i+1
		}, time.Second, time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Start(ctx)

	for i, expected := range []string{"OR-1", "OR-2", "OR-3"} {
		select {
		case receipt := <-results[i]:
			assert.Equal(t, expected, receipt)
		case <-time.After(time.Second):
			t.Fatalf("request %d timed out", i)
		}
	}

	assert.Equal(t, []int64{1, 2, 3}, proc.processedOrder())
}

func TestPaymentQueueErrorIsolation(t *testing.T) {
	boom := errors.New("card declined")
	proc := &recordingProcessor{
		receipts: map[int64]string{2: "OR-2"},
		errs:     map[int64]error{1: boom},
	}
	q := NewPaymentQueue(proc, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Start(ctx)

	_, err := q.Submit(context.Background(), PaymentRequest{UserID: 7, CartID: 1, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, boom)

	// The failure above must not stop the worker.
	receipt, err := q.Submit(context.Background(), PaymentRequest{UserID: 7, CartID: 2, PaymentMethod: "cash"})
	assert.NoError(t, err)
	assert.Equal(t, "OR-2", receipt)
}

func TestPaymentQueueSubmitCancelledWhileWaiting(t *testing.T) {
	proc := &recordingProcessor{
		receipts: map[int64]string{1: "OR-1"},
		delay:    200 * time.Millisecond,
	}
	q := NewPaymentQueue(proc, 8)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go q.Start(workerCtx)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Submit(ctx, PaymentRequest{UserID: 7, CartID: 1, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPaymentQueueSubmitCancelledBeforeEnqueue(t *testing.T) {
	proc := &recordingProcessor{receipts: map[int64]string{}}
	// Size-1 buffer with no worker running: the second submit blocks on
	// the channel and must honour its context.
	q := NewPaymentQueue(proc, 1)

	go q.Submit(context.Background(), PaymentRequest{UserID: 7, CartID: 1, PaymentMethod: "cash"})
	require.Eventually(t, func() bool {
		return len(q.requests) == 1
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Submit(ctx, PaymentRequest{UserID: 7, CartID: 2, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPaymentQueueStartStopsOnCancel(t *testing.T) {
	proc := &recordingProcessor{receipts: map[int64]string{}}
	q := NewPaymentQueue(proc, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("queue worker did not stop")
	}
}
