package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_FIFOPerProducer(t *testing.T) {
	q := NewQueue[int](4)
	go func() {
		for i := 0; i < 4; i++ {
			q.Send(i)
		}
		q.Close()
	}()

	var got []int
	for {
		v, ok := q.Receive()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestQueue_BoundedCapacity(t *testing.T) {
	q := NewQueue[int](2)
	q.Send(1)
	q.Send(2)

	sent := make(chan struct{})
	go func() {
		q.Send(3) // should block until a receive happens
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("send on full queue should have blocked")
	default:
	}

	v, ok := q.Receive()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	<-sent

	assert.LessOrEqual(t, q.Len(), q.Cap())
}

func TestQueue_MultipleProducersConsumers(t *testing.T) {
	q := NewQueue[int](8)
	const n = 200

	var wg sync.WaitGroup
	wg.Add(4)
	for p := 0; p < 4; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < n/4; i++ {
				q.Send(i)
			}
		}()
	}
	go func() {
		wg.Wait()
		q.Close()
	}()

	count := 0
	for {
		_, ok := q.Receive()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, n, count)
}
