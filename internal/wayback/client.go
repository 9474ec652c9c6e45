package wayback

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"waybackspam/internal/models"
)

// DefaultBaseURL is the public Wayback Machine endpoint serving both the CDX
// index and archived captures.
const DefaultBaseURL = "https://web.archive.org"

// Client lists and fetches archived snapshots of a domain.
type Client struct {
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	sizeCap   int64
	userAgent string
}

func NewClient(baseURL string, timeout, dialTimeout time.Duration, sizeCap int64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(1), 2), // unauthenticated archive access tolerates ~1 req/s
		baseURL:   strings.TrimRight(baseURL, "/"),
		sizeCap:   sizeCap,
		userAgent: "waybackspam/1.0 (+https://example.com)",
	}
}

// ListSnapshots queries the CDX index for archived captures of target,
// newest-last, collapsed to at most one capture per day. Only captures
// archived with HTTP 200 are returned.
func (c *Client) ListSnapshots(ctx context.Context, target string, limit int) ([]models.SnapshotRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("url", target)
	q.Set("output", "json")
	q.Add("filter", "statuscode:200")
	q.Set("collapse", "timestamp:8")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cdx/search/cdx?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cdx query: http status %d", resp.StatusCode)
	}

	// CDX json output is an array of rows, the first row being field names.
	var rows [][]string
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.sizeCap)).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode cdx response: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	fields := map[string]int{}
	for i, name := range rows[0] {
		fields[name] = i
	}
	tsIdx, ok := fields["timestamp"]
	if !ok {
		return nil, fmt.Errorf("cdx response missing timestamp field")
	}
	urlIdx, ok := fields["original"]
	if !ok {
		return nil, fmt.Errorf("cdx response missing original field")
	}

	records := make([]models.SnapshotRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if tsIdx >= len(row) || urlIdx >= len(row) {
			continue
		}
		rec := models.SnapshotRecord{
			Timestamp:   row[tsIdx],
			OriginalURL: row[urlIdx],
		}
		if i, ok := fields["mimetype"]; ok && i < len(row) {
			rec.MimeType = row[i]
		}
		if i, ok := fields["statuscode"]; ok && i < len(row) {
			rec.StatusCode = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchSnapshot downloads the archived HTML of one capture. The id_ flag asks
// the archive for the original document without replay-toolbar rewriting.
func (c *Client) FetchSnapshot(ctx context.Context, rec models.SnapshotRecord) (models.SnapshotHTML, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.SnapshotHTML{}, err
	}

	snapURL := fmt.Sprintf("%s/web/%sid_/%s", c.baseURL, rec.Timestamp, rec.OriginalURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapURL, nil)
	if err != nil {
		return models.SnapshotHTML{}, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return models.SnapshotHTML{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return models.SnapshotHTML{}, fmt.Errorf("snapshot fetch: http status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return models.SnapshotHTML{}, err
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(io.LimitReader(body, c.sizeCap))
	if err != nil {
		return models.SnapshotHTML{}, err
	}

	enc, _, _ := charset.DetermineEncoding(data, resp.Header.Get("Content-Type"))
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return models.SnapshotHTML{}, fmt.Errorf("decode snapshot body: %w", err)
		}
		utf8data = data
	}

	return models.SnapshotHTML{
		HTML:        string(utf8data),
		Length:      len(utf8data),
		SnapshotURL: snapURL,
	}, nil
}
