package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPage = `<html>
<head><title>Backend Engineer</title></head>
<body>
  <nav>Home | Jobs | About</nav>
  <div class="job-description">
    <h1>Backend Engineer</h1>
    <p>We are hiring a backend engineer with Go and Postgres experience.</p>
  </div>
  <footer>Copyright 2026</footer>
  <script>trackPageView();</script>
</body>
</html>`

func TestJobDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "CandidateRanker")
		_, _ = w.Write([]byte(jobPage))
	}))
	defer srv.Close()

	text, err := NewFetcher(0).JobDescription(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Go and Postgres experience")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "trackPageView")
}

func TestJobDescription_FallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Plain posting text.</p></body></html>`))
	}))
	defer srv.Close()

	text, err := NewFetcher(0).JobDescription(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text.", text)
}

func TestJobDescription_RejectsInvalidURL(t *testing.T) {
	f := NewFetcher(0)

	_, err := f.JobDescription(context.Background(), "not-a-url")
	assert.Error(t, err)

	_, err = f.JobDescription(context.Background(), "ftp://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestJobDescription_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(0).JobDescription(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestJobDescription_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>noop()</script></body></html>`))
	}))
	defer srv.Close()

	_, err := NewFetcher(0).JobDescription(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no extractable text")
}

func TestJobDescription_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(jobPage))
	}))
	defer srv.Close()

	_, err := NewFetcher(50 * time.Millisecond).JobDescription(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestExtractMainText_SelectorOrder(t *testing.T) {
	html := `<html><body>
	  <main>Generic main content</main>
	  <div class="job-description">Specific posting content</div>
	</body></html>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Specific posting content", text)
}
