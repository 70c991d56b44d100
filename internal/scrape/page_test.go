package scrape

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe_task/internal/shared/types"
)

const samplePage = `<!doctype html>
<html><head>
  <title>  Sample
     title </title>
  <meta name="description" content="Sample content">
</head><body><h1>Heading</h1><p>First paragraph.</p></body></html>`

func newTestScraper() *PageScraper {
	return NewPageScraper(types.ScrapeConf{UserAgent: "cafe-task-test", RequestTimeoutSeconds: 5})
}

func TestProcessBuildsSuccessPayload(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	out, err := newTestScraper().Process(context.Background(), types.TaskInput{URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, "cafe-task-test", gotUA)
	assert.Equal(t, []string{"url", "status", "data"}, out.Keys())
	text, err := out.JSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"url":"`+srv.URL+`","status":"success","data":{"title":"Sample title","content":"Sample content","http_status":200}}`,
		text)
}

func TestProcessRequiresURL(t *testing.T) {
	_, err := newTestScraper().Process(context.Background(), types.TaskInput{})
	assert.True(t, errors.Is(err, ErrMissingURL))
}

func TestFetchReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestScraper().Fetch(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	_, err := newTestScraper().Fetch(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an HTML document")
}

func TestFetchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScraper().Fetch(ctx, "http://127.0.0.1:1/", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchAbortsWhenContextIsCancelledMidRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := newTestScraper().Fetch(ctx, srv.URL, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestFetchGoesThroughSOCKS5Proxy(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	greeting := make(chan []byte, 1)
	go func() {
		conn, err := lis.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		buf := make([]byte, 2)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		methods := make([]byte, int(buf[1]))
		if _, err := io.ReadFull(conn, methods); err != nil {
			return
		}
		greeting <- append(buf, methods...)
	}()

	proxyURL := "socks5://user:pass@" + lis.Addr().String()
	_, err = newTestScraper().Fetch(context.Background(), "http://page.example.test/", proxyURL)
	require.Error(t, err, "the listener never completes the handshake")

	select {
	case got := <-greeting:
		// version 5, offering no-auth and username/password
		assert.Equal(t, []byte{0x05, 0x02, 0x00, 0x02}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no SOCKS5 greeting reached the proxy")
	}
}

func TestExtractPageFallbacks(t *testing.T) {
	cases := []struct {
		name, html, title, content string
	}{
		{
			name:    "h1 and og description",
			html:    `<html><head><meta property="og:description" content="From OG"></head><body><h1>Big  Title</h1></body></html>`,
			title:   "Big Title",
			content: "From OG",
		},
		{
			name:    "first non-empty paragraph",
			html:    `<html><head><title>T</title></head><body><p>  </p><p>Second <b>one</b></p></body></html>`,
			title:   "T",
			content: "Second one",
		},
		{
			name: "nothing to extract",
			html: `<html><body></body></html>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tc.html))
			require.NoError(t, err)
			title, content := extractPage(doc.Selection)
			assert.Equal(t, tc.title, title)
			assert.Equal(t, tc.content, content)
		})
	}
}
