// Package embed is the seam between the board engine and the host wiki
// renderer. The renderer only ever talks to the Provider interface, so
// the engine's services stay swappable behind it.
package embed

import (
	"context"

	"wikiboard/internal/domain"
	"wikiboard/internal/repository"
	"wikiboard/internal/service"
)

// Provider is what the host page renderer needs from the board engine:
// existence checks for embed tags, renderable board data, and the
// inline search used to augment page search results.
type Provider interface {
	BoardExists(ctx context.Context, slug string) (bool, error)
	BoardData(ctx context.Context, user domain.User, slug string) (*service.BoardView, error)
	Search(ctx context.Context, user domain.User, term string) ([]*service.SearchResult, error)
}

type provider struct {
	boards *service.BoardService
	search *service.SearchService
}

func NewProvider(boards *service.BoardService, search *service.SearchService) Provider {
	return &provider{boards: boards, search: search}
}

func (p *provider) BoardExists(ctx context.Context, slug string) (bool, error) {
	return p.boards.BoardExists(ctx, slug)
}

func (p *provider) BoardData(ctx context.Context, user domain.User, slug string) (*service.BoardView, error) {
	return p.boards.GetBoardBySlug(ctx, user, slug)
}

func (p *provider) Search(ctx context.Context, user domain.User, term string) ([]*service.SearchResult, error) {
	return p.search.Search(ctx, user, term, repository.SearchFilters{}, service.EmbedSearchLimit)
}
