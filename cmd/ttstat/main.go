// Command ttstat fills a transposition table under concurrent load and
// reports Hashfull, exercising pkg/tt's sharded Clear and racy
// probe/save contract end to end. Flag/logging conventions grounded on
// cmd/counter/main.go.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/chizhovvadim/chesscore/pkg/chess"
	"github.com/chizhovvadim/chesscore/pkg/tt"
)

func main() {
	var megabytes = flag.Int("hash", 16, "transposition table size in megabytes")
	var workers = flag.Int("threads", runtime.NumCPU(), "number of concurrent writer goroutines")
	var writes = flag.Int("writes", 200000, "total probe/save operations across all workers")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags)

	var table = tt.New(*megabytes)
	logger.Printf("allocated %d MB transposition table", *megabytes)

	var start = time.Now()
	var perWorker = *writes / *workers

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			var rng = rand.New(rand.NewSource(seed))
			for i := 0; i < perWorker; i++ {
				var key = chess.Key(rng.Uint64())
				var entry, _ = table.Probe(key)
				table.Save(entry, key, chess.Value(rng.Intn(2000)-1000), false, chess.BoundExact,
					chess.Depth(rng.Intn(30)), chess.Move(rng.Intn(1<<15)), 0)
			}
		}(int64(w) + 1)
	}
	wg.Wait()

	logger.Printf("wrote %d entries across %d workers in %s", perWorker*(*workers), *workers, time.Since(start))
	logger.Printf("hashfull = %d/1000", table.Hashfull())

	table.NewSearch()
	if err := table.Clear(*workers); err != nil {
		logger.Fatalf("clear: %v", err)
	}
	logger.Printf("after clear: hashfull = %d/1000", table.Hashfull())
}
