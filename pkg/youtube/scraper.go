package youtube

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	defaultWatchURL  = "https://www.youtube.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxPageBytes     = 8 << 20
)

// htmlPattern locates a duration in watch page markup. Groups are hours,
// minutes and seconds as indicated by the multipliers.
type htmlPattern struct {
	re   *regexp.Regexp
	mult []int
}

// Tried in order; the first pattern that yields a number wins.
var htmlPatterns = []htmlPattern{
	{regexp.MustCompile(`"lengthSeconds":"(\d+)"`), []int{1}},
	{regexp.MustCompile(`"lengthSeconds":(\d+)`), []int{1}},
	{regexp.MustCompile(`"duration":"PT(\d+)M(\d+)S"`), []int{60, 1}},
	{regexp.MustCompile(`"duration":"PT(\d+)H(\d+)M(\d+)S"`), []int{3600, 60, 1}},
	{regexp.MustCompile(`<meta property="og:video:duration" content="(\d+)"`), []int{1}},
	{regexp.MustCompile(`"duration":"(\d+)"`), []int{1}},
	{regexp.MustCompile(`data-duration="(\d+)"`), []int{1}},
	{regexp.MustCompile(`"duration":(\d+)`), []int{1}},
}

// ExtractHTMLDuration finds a video duration in watch page HTML. It returns 0
// when no known pattern matches.
func ExtractHTMLDuration(html string) int {
	for _, p := range htmlPatterns {
		m := p.re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		total := 0
		ok := true
		for i, mul := range p.mult {
			n, err := strconv.Atoi(m[i+1])
			if err != nil {
				ok = false
				break
			}
			total += n * mul
		}
		if ok {
			return total
		}
	}
	return 0
}

// ScraperOption configures the Scraper.
type ScraperOption func(*Scraper)

// WithWatchBaseURL overrides the watch page host.
func WithWatchBaseURL(url string) ScraperOption {
	return func(s *Scraper) {
		s.baseURL = url
	}
}

// WithScraperHTTPClient overrides the default http.Client.
func WithScraperHTTPClient(hc *http.Client) ScraperOption {
	return func(s *Scraper) {
		s.http = hc
	}
}

// Scraper reads durations from the public watch page. It needs no API key
// but is subject to consent pages and bot detection.
type Scraper struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewScraper creates a watch page scraper.
func NewScraper(opts ...ScraperOption) *Scraper {
	s := &Scraper{
		baseURL:   defaultWatchURL,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Duration fetches the watch page for videoID and extracts its duration.
func (s *Scraper) Duration(ctx context.Context, videoID string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/watch?v="+videoID, nil)
	if err != nil {
		return 0, eris.Wrap(err, "youtube: create watch request")
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, transportError(videoID, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return 0, transportError(videoID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, statusError(videoID, resp.StatusCode, nil)
	}

	seconds := ExtractHTMLDuration(string(body))
	if seconds <= 0 {
		zap.L().Debug("youtube: no duration pattern in watch page",
			zap.String("video_id", videoID),
			zap.Int("bytes", len(body)),
		)
		return 0, &FetchError{Kind: NotFound, VideoID: videoID, Err: eris.New("no duration in page")}
	}
	return seconds, nil
}
