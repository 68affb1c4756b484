package search

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/pders01/riffle/internal/storage"
)

const (
	titleWeight       = 4.0
	descriptionWeight = 2.0
	contentWeight     = 1.0
	snippetLength     = 160
)

// Scorer is the index-free engine: it walks stored articles and ranks them
// with field-weighted term scores. Fine below a few thousand rows.
type Scorer struct {
	store *storage.Store
}

func NewScorer(store *storage.Store) *Scorer {
	return &Scorer{store: store}
}

func (s *Scorer) Search(ctx context.Context, query string, limit int) ([]*Result, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	articles, err := s.store.ArticlePage(ctx, storage.PageQuery{})
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, 16)
	for _, article := range articles {
		score := scoreField(article.Title, terms, titleWeight) +
			scoreField(article.Description, terms, descriptionWeight) +
			scoreField(article.Content, terms, contentWeight)
		if score <= 0 {
			continue
		}
		score *= 1 + recencyBoost(article.Published)

		results = append(results, &Result{
			ArticleID: article.ID,
			SourceID:  article.SourceID,
			Title:     article.Title,
			Snippet:   bestSnippet(article.Content, article.Description, terms),
			Score:     score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scoreField rates how well the terms match one field. Whole-word matches
// beat prefixes, prefixes beat substrings, and matching several distinct
// terms multiplies the total.
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)

	var score float64
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
			case strings.HasPrefix(word, term):
				score += 1.0
			case strings.Contains(word, term):
				score += 0.5
			}
		}
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1 + float64(matched)/float64(len(terms))
	}
	if len(words) > 0 {
		tf := float64(matched) / float64(len(words))
		score *= 1 + math.Log(1+tf)
	}
	return score * weight
}

// recencyBoost fades linearly from 10% for a just-published article to
// nothing at a week old.
func recencyBoost(published time.Time) float64 {
	if published.IsZero() {
		return 0
	}
	age := time.Since(published)
	week := 7 * 24 * time.Hour
	if age < 0 {
		age = 0
	}
	if age >= week {
		return 0
	}
	return 0.1 * (1 - float64(age)/float64(week))
}

// bestSnippet slides a window over the content and keeps the stretch that
// covers the most terms, falling back to the description.
func bestSnippet(content, description string, terms []string) string {
	text := content
	if text == "" {
		text = description
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	window := snippetLength / 8
	if window >= len(words) {
		return truncate(strings.Join(words, " "), snippetLength)
	}

	bestScore, bestStart := -1.0, 0
	for i := 0; i+window <= len(words); i++ {
		stretch := strings.ToLower(strings.Join(words[i:i+window], " "))
		score := 0.0
		for _, term := range terms {
			if strings.Contains(stretch, term) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}
	return truncate(strings.Join(words[bestStart:bestStart+window], " "), snippetLength)
}

// tokenize lower-cases and splits on non-alphanumerics, dropping one-rune
// fragments.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return terms
}

func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-1] + "…"
}
