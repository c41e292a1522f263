package chart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"songcharts/internal"
	"songcharts/internal/config"
	"songcharts/internal/util"
)

// ErrNoData means the page for a year could not be turned into a table.
var ErrNoData = errors.New("no data available for this year")

const tableSelector = "table.wikitable, table.sortable"

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ChartTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(time.Duration(cfg.ChartRequestDelayMs) * time.Millisecond),
	}
}

func (c *Client) YearURL(year int) string {
	return c.cfg.ChartBaseURL + strconv.Itoa(year)
}

// FetchYearTable downloads the chart page for year and returns the rows of
// its first chart table. Every failure wraps ErrNoData.
func (c *Client) FetchYearTable(ctx context.Context, year int) ([]internal.Row, error) {
	if err := c.limiter.WaitTurn(ctx); err != nil {
		return nil, err
	}
	defer c.limiter.Done()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.YearURL(year), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	req.Header.Set("User-Agent", c.cfg.ChartUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status=%d", ErrNoData, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	rows, ok := ParseTable(doc)
	if !ok {
		return nil, fmt.Errorf("%w: chart table not found", ErrNoData)
	}
	return rows, nil
}

// ParseTable decodes the first chart table of doc into rows of cells.
func ParseTable(doc *goquery.Document) ([]internal.Row, bool) {
	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, false
	}

	rows := []internal.Row{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := internal.Row{}
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, internal.Cell{
				Text:   util.CleanCell(cell.Text()),
				Header: strings.EqualFold(goquery.NodeName(cell), "th"),
			})
		})
		rows = append(rows, row)
	})
	return rows, true
}
