// Command hris-loadtest drives the session manager against the bundled
// mock credential store and a Redis-backed session store, reporting
// latency percentiles for the login and restore paths.
//
// With no -redis-addr flag (and no REDIS_ADDR env) it starts an embedded
// miniredis, so the tool runs standalone.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Bmat321/gohris"
	"github.com/Bmat321/gohris/storage"
)

type account struct {
	email string
	pass  string
}

// The demo accounts seeded by the mock credential store.
var demoAccounts = [...]account{
	{"employee@hris.com", "emp123"},
	{"hr@hris.com", "hr123"},
	{"md@hris.com", "md123"},
	{"teamlead@hris.com", "lead123"},
}

type clientState struct {
	mgr   *gohris.Manager
	store storage.Store
	mu    sync.Mutex
}

func main() {
	var (
		clients     = flag.Int("clients", 1000, "number of simulated clients")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase (login + restore)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "hris-lt", "session key prefix")
	)
	flag.Parse()

	if *clients <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "clients, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := gohris.DefaultConfig()
	cfg.Mock.SimulatedLatency = 0

	states := make([]clientState, *clients)
	fmt.Printf("building %d clients...\n", *clients)
	startSeed := time.Now()
	for i := range states {
		store, err := storage.NewRedis(client, fmt.Sprintf("%s-%d", *prefix, i), 24*time.Hour)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store build failed: %v\n", err)
			os.Exit(1)
		}
		mgr, err := gohris.New().
			WithConfig(cfg).
			WithStorage(store).
			WithMetricsEnabled(true).
			Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manager build failed: %v\n", err)
			os.Exit(1)
		}
		states[i] = clientState{mgr: mgr, store: store}
	}
	defer func() {
		for i := range states {
			states[i].mgr.Close()
		}
	}()
	fmt.Printf("built in %s\n", time.Since(startSeed).Round(time.Millisecond))

	loginStats := runLoginPhase(ctx, states, *ops, *concurrency)
	restoreStats := runRestorePhase(ctx, cfg, states, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("login", loginStats)
	printStats("restore", restoreStats)
	printCounters(states)
}

func runLoginPhase(ctx context.Context, states []clientState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				state := &states[r.Intn(len(states))]
				acct := demoAccounts[i%len(demoAccounts)]

				state.mu.Lock()
				t0 := time.Now()
				_, err := state.mgr.Login(ctx, acct.email, acct.pass)
				d := time.Since(t0)
				state.mu.Unlock()
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runRestorePhase builds a fresh manager over each client's storage, the
// way a relaunched process would, and times the restore.
func runRestorePhase(ctx context.Context, cfg gohris.Config, states []clientState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				state := &states[r.Intn(len(states))]

				state.mu.Lock()
				mgr, err := gohris.New().
					WithConfig(cfg).
					WithStorage(state.store).
					Build()
				if err != nil {
					state.mu.Unlock()
					atomic.AddInt64(&failures, 1)
					continue
				}
				t0 := time.Now()
				_, err = mgr.Restore(ctx)
				d := time.Since(t0)
				mgr.Close()
				state.mu.Unlock()
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func printCounters(states []clientState) {
	var success, failure uint64
	for i := range states {
		snap := states[i].mgr.MetricsSnapshot()
		success += snap.Counters[gohris.MetricLoginSuccess]
		failure += snap.Counters[gohris.MetricLoginFailure]
	}
	fmt.Printf("counters: login_success=%d login_failure=%d\n", success, failure)
}
