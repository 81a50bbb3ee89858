package qotd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrNoCandidates means the source answered but offered nothing usable.
var ErrNoCandidates = errors.New("no question candidates")

const userAgent = "bucksy-bot/1.0 (question of the day)"

// Candidates keeps titles that read as a safe-for-work question.
func Candidates(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if !strings.HasSuffix(t, "?") || strings.Contains(strings.ToUpper(t), "NSFW") {
			continue
		}
		out = append(out, t)
	}
	return out
}

type RedditSource struct {
	url    string
	client *http.Client
	intn   func(n int) int
}

func NewRedditSource(url string, client *http.Client) *RedditSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RedditSource{url: url, client: client, intn: rand.IntN}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title  string `json:"title"`
				Over18 bool   `json:"over_18"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *RedditSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch questions: status %d", resp.StatusCode)
	}

	var listing redditListing
	if err = json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return "", fmt.Errorf("failed to decode listing: %w", err)
	}

	titles := make([]string, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if !child.Data.Over18 {
			titles = append(titles, child.Data.Title)
		}
	}
	return pick(Candidates(titles), s.intn)
}

// ScrapeSource renders a listing page in headless Chrome and reads the
// post titles matched by selector.
type ScrapeSource struct {
	url      string
	selector string
	timeout  time.Duration
	intn     func(n int) int
}

func NewScrapeSource(url, selector string) *ScrapeSource {
	if selector == "" {
		selector = "h3"
	}
	return &ScrapeSource{url: url, selector: selector, timeout: 30 * time.Second, intn: rand.IntN}
}

func (s *ScrapeSource) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	chromedpCtx, cancelChrome := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelChrome()

	var titles []string
	script := fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(n => n.innerText.trim())`, s.selector)
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(s.url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(script, &titles),
	)
	if err != nil {
		return "", fmt.Errorf("failed to scrape questions: %w", err)
	}
	return pick(Candidates(titles), s.intn)
}

func pick(candidates []string, intn func(n int) int) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	return candidates[intn(len(candidates))], nil
}
