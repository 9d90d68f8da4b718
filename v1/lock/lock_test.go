package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMutexMutualExclusion(t *testing.T) {
	m := NewMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Acquire()
			counter++
			m.Release()
		}()
	}
	wg.Wait()
	if counter != 100 {
		t.Fatalf("expected 100, got %d", counter)
	}
}

func TestMutexBlocksUntilReleased(t *testing.T) {
	m := NewMutex()
	m.Acquire()
	acquired := make(chan struct{})
	go func() {
		m.Acquire()
		close(acquired)
		m.Release()
	}()
	select {
	case <-acquired:
		t.Fatal("acquire succeeded while lock was held")
	case <-time.After(20 * time.Millisecond):
	}
	m.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for blocked acquire")
	}
}

func TestRecursiveReentry(t *testing.T) {
	r := NewRecursive()
	r.Acquire()
	r.Acquire()
	r.Release()

	acquired := make(chan struct{})
	go func() {
		r.Acquire()
		close(acquired)
		r.Release()
	}()
	select {
	case <-acquired:
		t.Fatal("lock handed over before outermost release")
	case <-time.After(20 * time.Millisecond):
	}
	r.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for acquire after outermost release")
	}
}

func TestRecursiveMutualExclusion(t *testing.T) {
	r := NewRecursive()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Acquire()
			r.Acquire() // nested on purpose
			counter++
			r.Release()
			r.Release()
		}()
	}
	wg.Wait()
	if counter != 100 {
		t.Fatalf("expected 100, got %d", counter)
	}
}

func TestRecursiveReleaseByNonOwnerPanics(t *testing.T) {
	r := NewRecursive()
	r.Acquire()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if recover() == nil {
				t.Error("expected panic on release by non-owner")
			}
		}()
		r.Release()
	}()
	<-done
	r.Release()
}

func TestRecursiveReleaseWhenUnheldPanics(t *testing.T) {
	r := NewRecursive()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on release of unheld lock")
		}
	}()
	r.Release()
}

func TestInstrumentedObservesAcquisitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	l := NewInstrumented(NewMutex(), "test", reg)
	l.Acquire()
	l.Release()
	l.Acquire()
	l.Release()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(mfs))
	}
	for _, mf := range mfs {
		if mf.GetName() == "warpsync_lock_acquisitions_total" {
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
				t.Fatalf("expected 2 acquisitions, got %v", got)
			}
			return
		}
	}
	t.Fatal("acquisitions counter not found")
}
