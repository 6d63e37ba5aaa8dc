package intake

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factscope/internal/model"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Eiffel Tower facts</title><script>var tracking = 1;</script></head>
<body>
<header>Site navigation</header>
<article>
<h1>Eiffel Tower facts</h1>
<p>The Eiffel Tower is a wrought-iron lattice tower on the Champ de Mars in Paris, France.
It is named after the engineer Gustave Eiffel, whose company designed and built the tower.</p>
<p>Constructed from 1887 to 1889 as the centerpiece of the 1889 World's Fair, it was initially
criticised by some of France's leading artists and intellectuals for its design.</p>
</article>
<footer>Copyright</footer>
</body></html>`

type stubFetcher struct {
	result *FetchResult
	err    error
	calls  int
}

func (s *stubFetcher) Fetch(context.Context, string) (*FetchResult, error) {
	s.calls++
	return s.result, s.err
}

func TestLoad_Text(t *testing.T) {
	l := NewLoaderWithFetcher(&stubFetcher{}, nil)

	doc, err := l.Load(context.Background(), model.VerificationTask{
		Text:     "  The Eiffel Tower is located in Paris.  ",
		Language: "EN",
	})
	require.NoError(t, err)
	assert.Equal(t, "The Eiffel Tower is located in Paris.", doc.Text)
	assert.Equal(t, "en", doc.Language)
	assert.Empty(t, doc.SourceURL)
}

func TestLoad_DetectsLanguage(t *testing.T) {
	l := NewLoaderWithFetcher(&stubFetcher{}, nil)

	doc, err := l.Load(context.Background(), model.VerificationTask{
		Text: "La tour Eiffel est une tour de fer puddlé construite par Gustave Eiffel à Paris pour l'Exposition universelle.",
	})
	require.NoError(t, err)
	assert.Equal(t, "fr", doc.Language)
}

func TestLoad_InvalidTask(t *testing.T) {
	l := NewLoaderWithFetcher(&stubFetcher{}, nil)

	_, err := l.Load(context.Background(), model.VerificationTask{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrEmptyTask))

	_, err = l.Load(context.Background(), model.VerificationTask{Text: "x", URL: "https://example.com"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrAmbiguousTask))
}

func TestLoad_URL(t *testing.T) {
	fetcher := &stubFetcher{result: &FetchResult{
		HTML:     articlePage,
		FinalURL: "https://example.com/eiffel",
		Subject:  "eiffel",
	}}
	l := NewLoaderWithFetcher(fetcher, nil)
	l.detect = func(string) string { return "en" }

	doc, err := l.Load(context.Background(), model.VerificationTask{URL: "https://example.com/eiffel"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/eiffel", doc.SourceURL)
	assert.Equal(t, "Eiffel Tower facts", doc.Title)
	assert.Contains(t, doc.Text, "wrought-iron lattice tower")
	assert.NotContains(t, doc.Text, "tracking")
	assert.Equal(t, "en", doc.Language)
}

func TestLoad_URLFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	l := NewLoaderWithFetcher(fetcher, nil)

	doc, err := l.Load(context.Background(), model.VerificationTask{URL: "https://example.com/x", Language: "en"})
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, 1, fetcher.calls)
}

func TestLoad_NonHTTPURL(t *testing.T) {
	fetcher := &stubFetcher{}
	l := NewLoaderWithFetcher(fetcher, nil)

	doc, err := l.Load(context.Background(), model.VerificationTask{URL: "ftp://example.com/file"})
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
	assert.Equal(t, model.LanguageAuto, doc.Language)
	assert.Equal(t, 0, fetcher.calls)
}

func TestLoader_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		default:
			w.Header().Set("Content-Type", "text/html")
			_, _ = fmt.Fprint(w, articlePage)
		}
	}))
	defer server.Close()

	cfg := model.HTTPConfig{
		Timeout:       5 * time.Second,
		UserAgent:     "FactScope/0.1",
		MaxBodyBytes:  1 << 20,
		RespectRobots: true,
	}
	l := NewLoader(cfg, nil, nil)

	doc, err := l.Load(context.Background(), model.VerificationTask{URL: server.URL + "/articles/eiffel", Language: "en"})
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "Gustave Eiffel")

	doc, err = l.Load(context.Background(), model.VerificationTask{URL: server.URL + "/private/page", Language: "en"})
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
}

func TestExtractArticle_Fallback(t *testing.T) {
	title, text := ExtractArticle("<html><head><title>Short</title></head><body><nav>menu</nav><p>Tiny page text.</p></body></html>", nil)
	assert.Equal(t, "Short", title)
	assert.Equal(t, "Tiny page text.", strings.TrimSpace(text))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, model.LanguageAuto, DetectLanguage("   "))
	assert.Equal(t, "en", DetectLanguage("The quick brown fox jumps over the lazy dog while the farmer watches from the field."))
}

func TestProductToken(t *testing.T) {
	assert.Equal(t, "FactScope", productToken("FactScope/0.1 (+https://github.com/ppiankov/factscope)"))
	assert.Equal(t, "", productToken(""))
}
