// interchange-bench drives a mixed read/write workload against a buffer
// pool and prints the resulting statistics. Useful for eyeballing hit
// rates and eviction behavior at different pool sizes.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/H0TB0X420/InterchangeDB/pkg/buffer"
	"github.com/H0TB0X420/InterchangeDB/pkg/storage"
)

func main() {
	dataFile := flag.String("data", "./bench-data/interchange.db", "Path to the database page file")
	poolSize := flag.Int("pool-size", 64, "Buffer pool size in frames")
	pages := flag.Int("pages", 256, "Number of pages to populate")
	ops := flag.Int("ops", 10000, "Operations per worker")
	workers := flag.Int("workers", 4, "Concurrent workers")
	writeRatio := flag.Float64("write-ratio", 0.2, "Fraction of operations that are writes")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dataFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	diskMgr, err := storage.NewDiskManager(*dataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer diskMgr.Close()

	pool := buffer.NewBufferPool(*poolSize, diskMgr)

	fmt.Printf("Populating %d pages...\n", *pages)
	pageIDs := make([]storage.PageID, *pages)
	for i := range pageIDs {
		w, err := pool.NewPage()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create page %d: %v\n", i, err)
			os.Exit(1)
		}
		pageIDs[i] = w.PageID()
		w.Data()[0] = byte(i)
		w.Release()
	}

	fmt.Printf("Running %d workers x %d ops (write ratio %.0f%%)...\n", *workers, *ops, *writeRatio*100)
	start := time.Now()

	var wg sync.WaitGroup
	for worker := 0; worker < *workers; worker++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))

			for i := 0; i < *ops; i++ {
				pid := pageIDs[rng.Intn(len(pageIDs))]

				if rng.Float64() < *writeRatio {
					g, err := pool.FetchPageWrite(pid)
					if err != nil {
						continue
					}
					g.Data()[1+rng.Intn(storage.PageSize-1)] = byte(i)
					g.Release()
				} else {
					g, err := pool.FetchPageRead(pid)
					if err != nil {
						continue
					}
					_ = g.Data()[0]
					g.Release()
				}
			}
		}(int64(worker))
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := pool.FlushAllPages(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush pool: %v\n", err)
		os.Exit(1)
	}

	snap := pool.Stats().Snapshot()
	totalOps := *workers * *ops
	fmt.Printf("\n%d ops in %v (%.0f ops/sec)\n", totalOps, elapsed, float64(totalOps)/elapsed.Seconds())
	fmt.Println(snap)
	fmt.Printf("pages read: %d, pages written: %d, resident: %d/%d\n",
		snap.PagesRead, snap.PagesWritten, pool.PageCount(), pool.PoolSize())
}
