// Package news searches recent market headlines by keyword.
package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"marketbot/internal/news/newsapi"
)

// DefaultTerms is the market vocabulary every search is restricted to.
var DefaultTerms = []string{"borsa", "hisse", "piyasa", "yatırım", "kripto"}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Article is the transient view of one headline.
type Article struct {
	Title       string
	Description string
	URL         string
}

// UnavailableError reports a transport or provider failure, which is distinct
// from a search that simply matched nothing.
type UnavailableError struct {
	Keyword string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("news unavailable for %q: %v", e.Keyword, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Searcher is the part of the NewsAPI client the gateway needs.
type Searcher interface {
	Everything(ctx context.Context, r newsapi.EverythingRequest) (newsapi.EverythingResponse, error)
}

// BuildQuery composes keyword AND (t1 OR t2 ...).
func BuildQuery(keyword string, terms []string) string {
	keyword = strings.TrimSpace(keyword)
	if len(terms) == 0 {
		return keyword
	}
	return keyword + " AND (" + strings.Join(terms, " OR ") + ")"
}

type Gateway struct {
	api   Searcher
	terms []string
	log   *logrus.Entry
}

// NewGateway returns a gateway filtering on terms, or DefaultTerms when empty.
func NewGateway(api Searcher, terms []string, log *logrus.Entry) *Gateway {
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	g := &Gateway{
		api: api,
		log: log.WithField("component", "news"),
	}
	for _, t := range terms {
		g.terms = append(g.terms, fold(t))
	}
	return g
}

// Search returns the newest articles for keyword whose title or description
// mentions one of the gateway's terms. No match is an empty slice, not an error.
func (g *Gateway) Search(ctx context.Context, keyword string, page, pageSize int) ([]Article, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	res, err := g.api.Everything(ctx, newsapi.EverythingRequest{
		Query:    BuildQuery(keyword, g.terms),
		SortBy:   "publishedAt",
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, &UnavailableError{Keyword: keyword, Err: err}
	}

	out := make([]Article, 0, len(res.Articles))
	for _, a := range res.Articles {
		if !g.relevant(a.Title + " " + a.Description) {
			continue
		}
		out = append(out, Article{Title: a.Title, Description: a.Description, URL: a.URL})
	}
	g.log.WithFields(logrus.Fields{
		"keyword":  keyword,
		"total":    res.TotalResults,
		"received": len(res.Articles),
		"kept":     len(out),
	}).Debug("news search")
	return out, nil
}

// fold lower-cases with Turkish rules (I to ı, İ to i).
// Casers hold state, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

func (g *Gateway) relevant(text string) bool {
	text = fold(text)
	for _, t := range g.terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
