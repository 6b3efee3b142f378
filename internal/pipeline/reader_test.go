package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// emitSentinels must not block forever once its context is cancelled, even
// if nothing is left to drain the queue — the scenario that arises when
// every parser has already failed and exited before the reader reaches its
// cancellation branch.
func TestEmitSentinels_StopsOnCancelWithNoDrainer(t *testing.T) {
	q := NewQueue[vcfmodel.RawLine](1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		emitSentinels(ctx, q, 10) // far more than the queue can ever hold
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emitSentinels blocked past its cancelled context")
	}
}

// With room and no cancellation, emitSentinels still delivers every token.
func TestEmitSentinels_DeliversAllWhenNotCancelled(t *testing.T) {
	q := NewQueue[vcfmodel.RawLine](5)
	emitSentinels(context.Background(), q, 5)
	assert.Equal(t, 5, q.Len())
}
