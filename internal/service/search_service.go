package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"wikiboard/internal/domain"
	"wikiboard/internal/repository"
)

// Result caps. Hard limits, not pagination cursors.
const (
	PageSearchLimit  = 50 // dedicated search page
	EmbedSearchLimit = 20 // inline augmentation path
)

// Additive relevance weights. A result matching in several fields
// accumulates every applicable weight.
const (
	scoreTitle       = 100
	scoreDescription = 50
	scoreBoardName   = 30
	scoreStatusName  = 20
)

const snippetMaxLen = 200

// SearchResult is one ranked match. Score is computed deterministically
// in Go, independent of the SQL ordering (created_at descending), so a
// consumer can re-rank if it wants to.
type SearchResult struct {
	Card       domain.Card `json:"card"`
	BoardName  string      `json:"board_name"`
	StatusName string      `json:"status_name"`
	Score      int         `json:"score"`
	Snippet    string      `json:"snippet"`
}

// SearchService runs permission-filtered keyword search over tasks.
type SearchService struct {
	repo repository.SearchRepository
}

func NewSearchService(repo repository.SearchRepository) *SearchService {
	return &SearchService{repo: repo}
}

// Search matches term against card title, card description, board name
// and status name (case-insensitive substring), restricted to boards the
// user may view. An empty accessible set short-circuits to an empty
// result without issuing the match query.
func (s *SearchService) Search(ctx context.Context, user domain.User, term string, f repository.SearchFilters, limit int) ([]*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", domain.ErrValidation)
	}
	if limit <= 0 || limit > PageSearchLimit {
		limit = PageSearchLimit
	}

	boardIDs, err := s.repo.AccessibleBoardIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(boardIDs) == 0 {
		return nil, nil
	}

	rows, err := s.repo.SearchCards(ctx, term, boardIDs, f, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, &SearchResult{
			Card:       row.Card,
			BoardName:  row.BoardName,
			StatusName: row.StatusName,
			Score:      Score(term, row),
			Snippet:    Snippet(term, row),
		})
	}
	return results, nil
}

// Score sums the weights of every field the term matches in:
// title 100, description 50, board name 30, status name 20.
func Score(term string, row *repository.SearchRow) int {
	score := 0
	if containsFold(row.Card.Title, term) {
		score += scoreTitle
	}
	if containsFold(row.Card.Description, term) {
		score += scoreDescription
	}
	if containsFold(row.BoardName, term) {
		score += scoreBoardName
	}
	if containsFold(row.StatusName, term) {
		score += scoreStatusName
	}
	return score
}

// Snippet renders the highest-weighted matching field with the first
// occurrence of the term wrapped in <em> markup, truncated to 200
// characters with an ellipsis when longer.
func Snippet(term string, row *repository.SearchRow) string {
	var text string
	switch {
	case containsFold(row.Card.Title, term):
		text = row.Card.Title
	case containsFold(row.Card.Description, term):
		text = row.Card.Description
	case containsFold(row.BoardName, term):
		text = row.BoardName
	case containsFold(row.StatusName, term):
		text = row.StatusName
	default:
		text = row.Card.Title
	}
	return truncate(emphasize(text, term), snippetMaxLen)
}

func containsFold(text, term string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}

func emphasize(text, term string) string {
	start, end := foldIndex(text, term)
	if start < 0 {
		return text
	}
	return text[:start] + "<em>" + text[start:end] + "</em>" + text[end:]
}

// foldIndex locates the first case-insensitive occurrence of term in text
// and returns its byte bounds within text, or (-1, -1). The scan compares
// rune by rune; indexing into a lowered copy would misplace the bounds
// for characters whose byte length changes under case folding.
func foldIndex(text, term string) (int, int) {
	termRunes := []rune(term)
	if len(termRunes) == 0 {
		return -1, -1
	}
	for i := 0; i < len(text); {
		j, matched := i, 0
		for matched < len(termRunes) && j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if unicode.ToLower(r) != unicode.ToLower(termRunes[matched]) {
				break
			}
			j += size
			matched++
		}
		if matched == len(termRunes) {
			return i, j
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, -1
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
