// Package kb holds the read-only knowledge base of IT support articles and
// its keyword search. Articles are loaded once at startup and never mutated.
package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound is the expected miss outcome. It drives auto-escalation and is
// never treated as a failure by callers.
var ErrNotFound = errors.New("no matching knowledge base article")

// maxResults bounds the response size so a broad query cannot flood the
// agent's context window.
const maxResults = 2

type Article struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Issue    string   `json:"issue"`
	Keywords []string `json:"keywords"`
	Solution string   `json:"solution"`
}

type Store struct {
	articles []Article
	logger   *zap.Logger
}

// NewStore wraps a fixed article list.
func NewStore(articles []Article, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{articles: articles, logger: logger}
}

// Load reads the knowledge base JSON file written by cmd/seed.
func Load(path string, logger *zap.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base %s: %w", path, err)
	}
	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parsing knowledge base %s: %w", path, err)
	}
	s := NewStore(articles, logger)
	s.logger.Info("knowledge_base_loaded",
		zap.String("path", path),
		zap.Int("articles", len(articles)))
	return s, nil
}

// Search matches the query against each article: a hit is any article keyword
// appearing as a substring of the lower-cased query, or the lower-cased query
// appearing as a substring of the issue title. Matching is storage-ordered
// and unscored; at most two articles are returned.
func (s *Store) Search(query string) ([]Article, error) {
	queryLower := strings.ToLower(query)

	var results []Article
	for _, a := range s.articles {
		if matchArticle(a, queryLower) {
			results = append(results, a)
			if len(results) == maxResults {
				break
			}
		}
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

func matchArticle(a Article, queryLower string) bool {
	for _, k := range a.Keywords {
		if strings.Contains(queryLower, strings.ToLower(k)) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(a.Issue), queryLower)
}

// Articles returns the full article list in storage order.
func (s *Store) Articles() []Article {
	return s.articles
}

// FormatResults renders matched articles in the ISSUE/SOLUTION layout the
// agents and the tools service present to the model.
func FormatResults(articles []Article) string {
	parts := make([]string, 0, len(articles))
	for _, a := range articles {
		parts = append(parts, fmt.Sprintf("ISSUE: %s\nSOLUTION: %s", a.Issue, a.Solution))
	}
	return strings.Join(parts, "\n\n")
}
