package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 20
)

var (
	baseURL   = envOr("CALSURF_URL", "http://127.0.0.1:8090")
	mealTypes = []string{"breakfast", "lunch", "dinner", "snack"}
	views     = []string{"day", "week", "month", "year"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

// created holds entry IDs per user so toggles hit real entries.
type created struct {
	mu  sync.Mutex
	ids map[string][]string
}

func (c *created) add(user, id string) {
	c.mu.Lock()
	c.ids[user] = append(c.ids[user], id)
	c.mu.Unlock()
}

func (c *created) pick(rng *rand.Rand, user string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.ids[user]
	if len(ids) == 0 {
		return ""
	}
	return ids[rng.Intn(len(ids))]
}

var entries = &created{ids: make(map[string][]string)}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	fmt.Println("=== CalSurf Load Test ===")
	fmt.Printf("Target: %s | Workers: %d | Duration: %s | Users: %d\n\n", baseURL, numWorkers, testDuration, numUsers)

	// The daemon answers /health immediately but refuses writes until the
	// clock is reconciled.
	fmt.Print("Waiting for clock reconciliation... ")
	for i := 0; !clockReady(); i++ {
		if i == 50 {
			fmt.Println("FAILED: server not ready")
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Seeding logs (POST /logs) ---")
	runPhase(testDuration, doAddLog)

	fmt.Println("\n--- Phase 2: Mixed load (50% writes, 50% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doAddLog(rng)
		case r < 0.50:
			return doToggle(rng)
		case r < 0.70:
			return doStats(rng)
		case r < 0.85:
			return doGet("GET /logs", "/logs?today=1&u="+randomUser(rng))
		case r < 0.95:
			return doGet("GET /history", "/history?u="+randomUser(rng))
		default:
			return doGet("GET /time", "/time")
		}
	})

	// Read-heavy traffic mostly exercises the stats cache.
	fmt.Println("\n--- Phase 3: Read-heavy load (5% writes, 95% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doAddLog(rng)
		case r < 0.60:
			return doStats(rng)
		case r < 0.85:
			return doGet("GET /history", "/history?u="+randomUser(rng))
		default:
			return doGet("GET /logs", "/logs?u="+randomUser(rng))
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	totalOps := atomic.NewInt64(0)
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
					totalOps.Inc()
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, totalOps.Load(), duration)
}

func printResults(allResults map[string]*stats, totalOps int64, duration time.Duration) {
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 88))
	if totalOps == 0 {
		fmt.Println("  No requests completed")
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func clockReady() bool {
	resp, err := httpClient.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	var health struct {
		ClockReady bool `json:"clock_ready"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.ClockReady
}

func randomUser(rng *rand.Rand) string {
	return fmt.Sprintf("user_%d", rng.Intn(numUsers))
}

func doAddLog(rng *rand.Rand) result {
	user := randomUser(rng)
	nItems := rng.Intn(3) + 1
	items := make([]map[string]interface{}, nItems)
	for i := range items {
		items[i] = map[string]interface{}{
			"name":     fmt.Sprintf("food_%d", rng.Intn(100)),
			"calories": rng.Intn(600) + 50,
			"protein":  rng.Intn(40),
			"carbs":    rng.Intn(80),
			"fats":     rng.Intn(30),
		}
	}
	body := map[string]interface{}{
		"name":     "meal",
		"mealType": mealTypes[rng.Intn(len(mealTypes))],
		"isEaten":  rng.Float64() < 0.8,
		"items":    items,
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/logs?u="+user, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /logs", 0, lat, true}
	}
	defer resp.Body.Close()

	var entry struct {
		ID string `json:"id"`
	}
	if resp.StatusCode == http.StatusCreated && json.NewDecoder(resp.Body).Decode(&entry) == nil {
		entries.add(user, entry.ID)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return result{"POST /logs", resp.StatusCode, lat, resp.StatusCode != http.StatusCreated}
}

func doToggle(rng *rand.Rand) result {
	user := randomUser(rng)
	id := entries.pick(rng, user)
	if id == "" {
		return doAddLog(rng)
	}
	start := time.Now()
	resp, err := httpClient.Post(fmt.Sprintf("%s/logs/toggle?u=%s&id=%s", baseURL, user, id), "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /logs/toggle", 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /logs/toggle", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doStats(rng *rand.Rand) result {
	view := views[rng.Intn(len(views))]
	return doGet("GET /stats", fmt.Sprintf("/stats?view=%s&u=%s", view, randomUser(rng)))
}

func doGet(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
