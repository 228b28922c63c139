// Package feed downloads candidate articles from the arXiv Atom API.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

type FetchedArticle struct {
	ArxivID     string
	URL         string
	Title       string
	Abstract    string
	Authors     []string
	Categories  []string
	PublishedAt time.Time
}

type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = userAgent

	return &Fetcher{
		parser:  parser,
		timeout: timeout,
	}
}

// Fetch downloads and parses one category feed. The queried category is
// listed first on every article even when the entry omits it.
func (f *Fetcher) Fetch(ctx context.Context, feedURL, category string) ([]FetchedArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var articles []FetchedArticle
	for _, item := range feed.Items {
		id := ArxivID(item.GUID)
		if id == "" {
			id = ArxivID(item.Link)
		}
		if id == "" {
			continue
		}

		article := FetchedArticle{
			ArxivID:    id,
			URL:        item.Link,
			Title:      CleanText(item.Title),
			Abstract:   CleanText(item.Description),
			Categories: withCategory(category, item.Categories),
		}

		for _, author := range item.Authors {
			if author != nil && author.Name != "" {
				article.Authors = append(article.Authors, CleanText(author.Name))
			}
		}

		if item.PublishedParsed != nil {
			article.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			article.PublishedAt = *item.UpdatedParsed
		} else {
			article.PublishedAt = time.Now()
		}

		if article.Abstract == "" {
			article.Abstract = CleanText(item.Content)
		}

		articles = append(articles, article)
	}

	return articles, nil
}

func withCategory(category string, categories []string) []string {
	out := []string{}
	if category != "" {
		out = append(out, category)
	}
	for _, c := range categories {
		if c != "" && c != category {
			out = append(out, c)
		}
	}
	return out
}
