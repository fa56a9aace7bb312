package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err, _ := g.Do("fixtures?league=39", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(15 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if value != "payload" {
				t.Errorf("expected shared payload, got %v", value)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
}

func TestSingleFlight_SequentialCallsRunEach(t *testing.T) {
	var g SingleFlight
	var executions int

	for i := 0; i < 3; i++ {
		_, _, shared := g.Do("countries", func() (any, error) {
			executions++
			return nil, nil
		})
		if shared {
			t.Fatalf("sequential call %d should not be shared", i)
		}
	}
	if executions != 3 {
		t.Fatalf("expected three executions, got %d", executions)
	}
}
