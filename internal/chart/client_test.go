package chart

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"songcharts/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

const samplePage = `<html><body>
<table class="wikitable sortable">
<tr><th>No.</th><th>Title</th><th>Artist(s)</th></tr>
<tr><td>1</td><td>"Breathe"</td><td>Faith   Hill</td></tr>
<tr><th>2</th><td>"Smooth"</td><td>Santana featuring Rob Thomas</td></tr>
</table>
<table class="wikitable"><tr><td>ignored</td></tr></table>
</body></html>`

func testConfig() config.Config {
	return config.Config{
		ChartBaseURL:        "https://example.test/wiki/Chart_of_",
		ChartUserAgent:      "songcharts-test/1.0",
		ChartTimeoutMs:      1000,
		ChartRequestDelayMs: 0,
	}
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchYearTable(t *testing.T) {
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/wiki/Chart_of_2000" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if ua := r.Header.Get("User-Agent"); ua != "songcharts-test/1.0" {
				t.Fatalf("user agent=%q", ua)
			}
			return respond(http.StatusOK, samplePage), nil
		}),
	}

	rows, err := client.FetchYearTable(context.Background(), 2000)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len=%d", len(rows))
	}
	if !rows[0][0].Header || rows[1][0].Header {
		t.Fatalf("header flags wrong: %+v", rows[:2])
	}
	if rows[1][1].Text != "Breathe" || rows[1][2].Text != "Faith Hill" {
		t.Fatalf("row1=%+v", rows[1])
	}
	if !rows[2][0].Header || rows[2][0].Text != "2" {
		t.Fatalf("row2=%+v", rows[2])
	}
}

func TestFetchYearTableNoData(t *testing.T) {
	cases := []struct {
		name string
		resp func() (*http.Response, error)
	}{
		{name: "not found", resp: func() (*http.Response, error) { return respond(http.StatusNotFound, "missing"), nil }},
		{name: "no table", resp: func() (*http.Response, error) { return respond(http.StatusOK, "<p>nothing</p>"), nil }},
		{name: "transport", resp: func() (*http.Response, error) { return nil, errors.New("connection reset") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewClient(testConfig())
			client.httpClient = &http.Client{
				Transport: roundTripFunc(func(*http.Request) (*http.Response, error) { return tc.resp() }),
			}
			_, err := client.FetchYearTable(context.Background(), 1999)
			if !errors.Is(err, ErrNoData) {
				t.Fatalf("err=%v want ErrNoData", err)
			}
		})
	}
}

func TestRateLimiterSpacesCalls(t *testing.T) {
	limiter := NewRateLimiter(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.WaitTurn(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("elapsed=%s", elapsed)
	}
}

func TestRateLimiterHonoursCancel(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if err := limiter.WaitTurn(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := limiter.WaitTurn(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}

func TestFetchYearTablePausesAfterSlowFetch(t *testing.T) {
	cfg := testConfig()
	cfg.ChartRequestDelayMs = 50
	client := NewClient(cfg)

	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			time.Sleep(80 * time.Millisecond)
			return respond(http.StatusOK, samplePage), nil
		}),
	}

	if _, err := client.FetchYearTable(context.Background(), 2000); err != nil {
		t.Fatal(err)
	}
	finished := time.Now()

	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			if gap := time.Since(finished); gap < 45*time.Millisecond {
				t.Errorf("second fetch started %s after the first finished", gap)
			}
			return respond(http.StatusOK, samplePage), nil
		}),
	}
	if _, err := client.FetchYearTable(context.Background(), 2001); err != nil {
		t.Fatal(err)
	}
}

func TestRateLimiterDoneRestartsInterval(t *testing.T) {
	limiter := NewRateLimiter(40 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.WaitTurn(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	limiter.Done()

	start := time.Now()
	if err := limiter.WaitTurn(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Fatalf("elapsed=%s", elapsed)
	}
}
