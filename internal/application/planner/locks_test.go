package planner

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionLocks(t *testing.T) {
	locks := newSessionLocks()
	id := uuid.New()

	unlock := locks.lock(id)
	acquired := make(chan struct{})
	go func() {
		release := locks.lock(id)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second caller entered a held session")
	case <-time.After(20 * time.Millisecond):
	}

	other := locks.lock(uuid.New())
	other()

	unlock()
	<-acquired

	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, time.Millisecond)
}

func TestSessionLocks_Counter(t *testing.T) {
	locks := newSessionLocks()
	id := uuid.New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(id)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locks.size())
}
