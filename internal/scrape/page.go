// Package scrape holds the default business logic of the task: fetch the page named
// by the "url" parameter and report its title and a short content summary.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"cafe_task/internal/payload"
	"cafe_task/internal/proxy"
	"cafe_task/internal/shared/logger"
	"cafe_task/internal/shared/types"
)

// ErrMissingURL is returned when the task parameters carry no "url".
var ErrMissingURL = errors.New(`input parameter "url" is missing`)

// PageScraper 实现了 types.Processor 接口，使用 colly 抓取单个页面。
type PageScraper struct {
	userAgent string
	timeout   time.Duration
}

var _ types.Processor = (*PageScraper)(nil)

// NewPageScraper 创建一个新的 PageScraper 实例。
func NewPageScraper(conf types.ScrapeConf) *PageScraper {
	timeout := time.Duration(conf.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &PageScraper{userAgent: conf.UserAgent, timeout: timeout}
}

// Page is what the scraper extracts from one document.
type Page struct {
	Title      string
	Content    string
	HTTPStatus int
}

// Process fetches in.URL, through in.ProxyURL when one is set, and builds the
// success payload.
func (s *PageScraper) Process(ctx context.Context, in types.TaskInput) (*payload.Map, error) {
	if in.URL == "" {
		return nil, ErrMissingURL
	}
	page, err := s.Fetch(ctx, in.URL, in.ProxyURL)
	if err != nil {
		return nil, err
	}

	data := payload.NewMap().
		SetString("title", page.Title).
		SetString("content", page.Content).
		Set("http_status", payload.IntValue(int64(page.HTTPStatus)))

	return payload.NewMap().
		SetString("url", in.URL).
		SetString("status", "success").
		SetMap("data", data), nil
}

// Fetch downloads and parses a single page.
func (s *PageScraper) Fetch(ctx context.Context, pageURL, proxyURL string) (*Page, error) {
	l := logger.WithComponent("Scrape/Page")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transport, err := proxy.NewTransport(proxyURL, s.timeout)
	if err != nil {
		return nil, err
	}

	c := colly.NewCollector(colly.UserAgent(s.userAgent), colly.StdlibContext(ctx))
	c.SetRequestTimeout(s.timeout)
	c.WithTransport(transport)

	page := &Page{}
	var found bool
	var scrapeErr error

	c.OnResponse(func(r *colly.Response) {
		page.HTTPStatus = r.StatusCode
	})
	c.OnHTML("html", func(e *colly.HTMLElement) {
		if found {
			return
		}
		found = true
		page.Title, page.Content = extractPage(e.DOM)
	})
	c.OnError(func(r *colly.Response, err error) {
		page.HTTPStatus = r.StatusCode
		scrapeErr = err
	})

	l.Debug().Str("url", pageURL).Bool("via_proxy", proxyURL != "").Msg("Visiting page...")
	if err := c.Visit(pageURL); err != nil && scrapeErr == nil {
		scrapeErr = err
	}
	c.Wait()

	if scrapeErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", pageURL, ctxErr)
		}
		if page.HTTPStatus != 0 {
			return nil, fmt.Errorf("fetch %s: status %d: %w", pageURL, page.HTTPStatus, scrapeErr)
		}
		return nil, fmt.Errorf("fetch %s: %w", pageURL, scrapeErr)
	}
	if !found {
		return nil, fmt.Errorf("fetch %s: response is not an HTML document", pageURL)
	}

	l.Debug().Str("url", pageURL).Int("status_code", page.HTTPStatus).Str("title", page.Title).Msg("Page scraped.")
	return page, nil
}

// extractPage picks the title (<title>, else first <h1>) and a content summary (meta
// description, else og:description, else the first non-empty paragraph).
func extractPage(doc *goquery.Selection) (title, content string) {
	title = squash(doc.Find("title").First().Text())
	if title == "" {
		title = squash(doc.Find("h1").First().Text())
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		content = squash(desc)
	}
	if content == "" {
		if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			content = squash(desc)
		}
	}
	if content == "" {
		doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			content = squash(p.Text())
			return content == ""
		})
	}
	return title, content
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
