package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type requestKey struct {
	handler string
	method  string
	code    string
}

type histogram struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type collector struct {
	mu       sync.Mutex
	requests map[requestKey]uint64
	fetches  map[string]uint64
	fetchLat *histogram
}

var tallyCollector = newCollector()

func newCollector() *collector {
	return &collector{
		requests: make(map[requestKey]uint64),
		fetches:  make(map[string]uint64),
		fetchLat: newHistogram(),
	}
}

// ObserveHTTPRequest records one request served by the local API.
func ObserveHTTPRequest(handler, method string, status int) {
	tallyCollector.observeRequest(handler, method, status)
}

func (c *collector) observeRequest(handler, method string, status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := requestKey{handler: handler, method: method, code: strconv.Itoa(status)}
	c.requests[key]++
}

// ObserveSourceFetch records one upstream fetch attempt. A status of zero
// marks a transport-level failure before any response arrived.
func ObserveSourceFetch(status int, duration time.Duration) {
	tallyCollector.observeFetch(status, duration)
}

func (c *collector) observeFetch(status int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches[fetchLabel(status)]++
	c.fetchLat.observe(duration.Seconds())
}

func fetchLabel(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

func newHistogram() *histogram {
	buckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) observe(value float64) {
	h.count++
	h.sum += value
	for idx, bound := range h.buckets {
		if value <= bound {
			for i := idx; i < len(h.counts); i++ {
				h.counts[i]++
			}
			break
		}
	}
	// Values greater than the last bucket only show up in the +Inf bucket via h.count.
}

// Handler exposes the metrics in Prometheus text exposition format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = fmt.Fprint(w, tallyCollector.render())
	})
}

func (c *collector) render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder

	b.WriteString("# HELP todotally_http_requests_total Requests served by the local API.\n")
	b.WriteString("# TYPE todotally_http_requests_total counter\n")
	requestKeys := make([]requestKey, 0, len(c.requests))
	for key := range c.requests {
		requestKeys = append(requestKeys, key)
	}
	sort.Slice(requestKeys, func(i, j int) bool {
		if requestKeys[i].handler != requestKeys[j].handler {
			return requestKeys[i].handler < requestKeys[j].handler
		}
		if requestKeys[i].method != requestKeys[j].method {
			return requestKeys[i].method < requestKeys[j].method
		}
		return requestKeys[i].code < requestKeys[j].code
	})
	for _, key := range requestKeys {
		fmt.Fprintf(&b, "todotally_http_requests_total{handler=%q,method=%q,code=%q} %d\n",
			key.handler, key.method, key.code, c.requests[key])
	}

	b.WriteString("# HELP todotally_source_fetch_total Upstream fetch attempts by response status.\n")
	b.WriteString("# TYPE todotally_source_fetch_total counter\n")
	fetchLabels := make([]string, 0, len(c.fetches))
	for label := range c.fetches {
		fetchLabels = append(fetchLabels, label)
	}
	sort.Strings(fetchLabels)
	for _, label := range fetchLabels {
		fmt.Fprintf(&b, "todotally_source_fetch_total{status=%q} %d\n", label, c.fetches[label])
	}

	b.WriteString("# HELP todotally_source_fetch_duration_seconds Upstream fetch latency.\n")
	b.WriteString("# TYPE todotally_source_fetch_duration_seconds histogram\n")
	for idx, bound := range c.fetchLat.buckets {
		fmt.Fprintf(&b, "todotally_source_fetch_duration_seconds_bucket{le=%q} %d\n",
			strconv.FormatFloat(bound, 'g', -1, 64), c.fetchLat.counts[idx])
	}
	fmt.Fprintf(&b, "todotally_source_fetch_duration_seconds_bucket{le=\"+Inf\"} %d\n", c.fetchLat.count)
	fmt.Fprintf(&b, "todotally_source_fetch_duration_seconds_sum %s\n",
		strconv.FormatFloat(c.fetchLat.sum, 'g', -1, 64))
	fmt.Fprintf(&b, "todotally_source_fetch_duration_seconds_count %d\n", c.fetchLat.count)

	return b.String()
}
