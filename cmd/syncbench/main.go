package main

import (
	"flag"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mirkobrombin/go-warp-sync/v1/atomic"
	"github.com/mirkobrombin/go-warp-sync/v1/lock"
)

var (
	concurrency = flag.Int("c", 50, "Concurrency")
	operations  = flag.Int("n", 1000000, "Total operations")
)

func main() {
	flag.Parse()

	fmt.Printf("| %-18s | %-12s | %-12s |\n", "System", "Ops/sec", "Avg Latency")
	fmt.Println("|:---|:---|:---|")

	run("atomic-mutex", func() func() {
		a := atomic.New(0)
		return func() {
			_, _ = a.Modify(func(v *int) error {
				*v++
				return nil
			})
		}
	}())

	run("atomic-recursive", func() func() {
		a := atomic.New(0, atomic.WithLocker[int](lock.NewRecursive()))
		return func() {
			_, _ = a.Modify(func(v *int) error {
				*v++
				return nil
			})
		}
	}())

	run("bare-sync-mutex", func() func() {
		var mu sync.Mutex
		v := 0
		return func() {
			mu.Lock()
			v++
			mu.Unlock()
		}
	}())
}

func run(name string, op func()) {
	perWorker := *operations / *concurrency
	start := time.Now()
	var g errgroup.Group
	for w := 0; w < *concurrency; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				op()
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)
	total := perWorker * *concurrency
	opsPerSec := float64(total) / elapsed.Seconds()
	avg := elapsed / time.Duration(total)
	fmt.Printf("| %-18s | %-12.0f | %-12s |\n", name, opsPerSec, avg)
}
