package metrics

import (
	"strings"
	"testing"
	"time"
)

func mustContain(t *testing.T, output, line string) {
	t.Helper()
	if !strings.Contains(output, line) {
		t.Fatalf("rendered output missing %q:\n%s", line, output)
	}
}

func TestRenderCountersAndLabels(t *testing.T) {
	c := newCollector()
	c.observeRequest("summary", "GET", 200)
	c.observeRequest("summary", "GET", 200)
	c.observeRequest("summary", "POST", 405)
	c.observeFetch(200, 250*time.Millisecond)
	c.observeFetch(503, 250*time.Millisecond)
	c.observeFetch(0, 250*time.Millisecond)

	output := c.render()

	mustContain(t, output, `todotally_http_requests_total{handler="summary",method="GET",code="200"} 2`)
	mustContain(t, output, `todotally_http_requests_total{handler="summary",method="POST",code="405"} 1`)
	mustContain(t, output, `todotally_source_fetch_total{status="200"} 1`)
	mustContain(t, output, `todotally_source_fetch_total{status="503"} 1`)
	mustContain(t, output, `todotally_source_fetch_total{status="error"} 1`)
}

func TestRenderHistogramBucketsAreCumulative(t *testing.T) {
	c := newCollector()
	c.observeFetch(200, 250*time.Millisecond)
	c.observeFetch(200, 500*time.Millisecond)

	output := c.render()

	mustContain(t, output, `todotally_source_fetch_duration_seconds_bucket{le="0.05"} 0`)
	mustContain(t, output, `todotally_source_fetch_duration_seconds_bucket{le="0.25"} 1`)
	mustContain(t, output, `todotally_source_fetch_duration_seconds_bucket{le="0.5"} 2`)
	mustContain(t, output, `todotally_source_fetch_duration_seconds_bucket{le="10"} 2`)
	mustContain(t, output, `todotally_source_fetch_duration_seconds_bucket{le="+Inf"} 2`)
	mustContain(t, output, "todotally_source_fetch_duration_seconds_sum 0.75")
	mustContain(t, output, "todotally_source_fetch_duration_seconds_count 2")
}

func TestRenderHistogramOverflowOnlyInInf(t *testing.T) {
	c := newCollector()
	c.observeFetch(200, 12*time.Second)

	output := c.render()

	mustContain(t, output, `todotally_source_fetch_duration_seconds_bucket{le="10"} 0`)
	mustContain(t, output, `todotally_source_fetch_duration_seconds_bucket{le="+Inf"} 1`)
	mustContain(t, output, "todotally_source_fetch_duration_seconds_sum 12")
	mustContain(t, output, "todotally_source_fetch_duration_seconds_count 1")
}

func TestFetchLabel(t *testing.T) {
	if got := fetchLabel(200); got != "200" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := fetchLabel(0); got != "error" {
		t.Fatalf("transport failures must render as error, got %s", got)
	}
	if got := fetchLabel(-1); got != "error" {
		t.Fatalf("negative statuses must render as error, got %s", got)
	}
}
