package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query: search_query=cat:cs.AI</title>
  <id>http://arxiv.org/api/abc</id>
  <updated>2024-01-03T00:00:00-05:00</updated>
  <entry>
    <id>http://arxiv.org/abs/2401.00001v2</id>
    <updated>2024-01-02T18:00:00Z</updated>
    <published>2024-01-01T18:00:00Z</published>
    <title>Neural
      reasoning   over graphs</title>
    <summary>  We study neural
  reasoning.
</summary>
    <author><name>A. Turing</name></author>
    <author><name>E. Noether</name></author>
    <link href="http://arxiv.org/abs/2401.00001v2" rel="alternate" type="text/html"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v1</id>
    <published>1999-01-01T00:00:00Z</published>
    <title>Strings</title>
    <summary>Old style identifier.</summary>
    <author><name>P. Dirac</name></author>
  </entry>
</feed>`

func TestFetch(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "phynews-test")
	articles, err := fetcher.Fetch(context.Background(), server.URL, "cs.AI")
	if err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}

	if gotAgent != "phynews-test" {
		t.Errorf("expected user agent phynews-test, got %q", gotAgent)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	a := articles[0]
	if a.ArxivID != "2401.00001" {
		t.Errorf("expected id 2401.00001, got %s", a.ArxivID)
	}
	if a.Title != "Neural reasoning over graphs" {
		t.Errorf("expected collapsed title, got %q", a.Title)
	}
	if a.Abstract != "We study neural reasoning." {
		t.Errorf("expected collapsed abstract, got %q", a.Abstract)
	}
	if !reflect.DeepEqual(a.Authors, []string{"A. Turing", "E. Noether"}) {
		t.Errorf("expected authors in feed order, got %v", a.Authors)
	}
	if !reflect.DeepEqual(a.Categories, []string{"cs.AI", "cs.LG"}) {
		t.Errorf("expected queried category first, got %v", a.Categories)
	}
	if a.PublishedAt.Year() != 2024 {
		t.Errorf("expected 2024 publish date, got %v", a.PublishedAt)
	}

	if articles[1].ArxivID != "hep-th/9901001" {
		t.Errorf("expected old-style id, got %s", articles[1].ArxivID)
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(5*time.Second, "").Fetch(context.Background(), server.URL, "cs.AI")
	if err == nil {
		t.Error("expected error for 503 response")
	}
}

func TestQueryURL(t *testing.T) {
	u := QueryURL("", "quant-ph", 25)

	if !strings.HasPrefix(u, DefaultBaseURL+"?") {
		t.Errorf("expected default base URL, got %s", u)
	}
	for _, part := range []string{"search_query=cat%3Aquant-ph", "max_results=25", "sortBy=submittedDate", "sortOrder=descending"} {
		if !strings.Contains(u, part) {
			t.Errorf("expected %q in %s", part, u)
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  plain\n  text ", "plain text"},
		{"<p>Some <b>bold</b> claim</p>", "Some bold claim"},
		{"Ising &amp; Potts models", "Ising & Potts models"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanText(c.in); got != c.want {
			t.Errorf("CleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
