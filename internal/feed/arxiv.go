package feed

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the arXiv API query endpoint.
const DefaultBaseURL = "http://export.arxiv.org/api/query"

var versionSuffix = regexp.MustCompile(`v\d+$`)

// QueryURL builds the arXiv API query returning the newest submissions in
// a category.
func QueryURL(baseURL, category string, maxResults int) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	params := url.Values{}
	params.Set("search_query", "cat:"+category)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	return baseURL + "?" + params.Encode()
}

// ArxivID extracts the identifier from an entry id such as
// http://arxiv.org/abs/2401.01234v2, dropping the version suffix.
func ArxivID(entryID string) string {
	id := entryID
	if idx := strings.Index(id, "/abs/"); idx >= 0 {
		id = id[idx+len("/abs/"):]
	} else if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	return versionSuffix.ReplaceAllString(strings.TrimSpace(id), "")
}

// CleanText strips markup and collapses whitespace. arXiv titles and
// abstracts arrive hard-wrapped and sometimes carry inline HTML.
func CleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
