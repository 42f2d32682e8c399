package service

import (
	"context"
	"strings"
	"time"

	"wikiboard/internal/domain"
	"wikiboard/internal/repository"

	"github.com/jackc/pgx/v5"
)

// In-memory repository fakes. They mirror the store semantics the
// services rely on: soft deletes, ledger appends coupled to mutations,
// and no renumbering of sibling positions.

type fakeBoardRepo struct {
	nextID int64
	boards map[int64]*domain.Board
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: map[int64]*domain.Board{}}
}

func (f *fakeBoardRepo) Create(_ context.Context, b *domain.Board) error {
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.boards[b.ID] = &cp
	return nil
}

func (f *fakeBoardRepo) GetByID(_ context.Context, id int64) (*domain.Board, error) {
	b, ok := f.boards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBoardRepo) GetByName(_ context.Context, name string) (*domain.Board, error) {
	for _, b := range f.boards {
		if strings.EqualFold(b.Name, name) && b.DeletedAt == nil {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBoardRepo) GetBySlug(_ context.Context, slug string) (*domain.Board, error) {
	for _, b := range f.boards {
		if strings.EqualFold(b.Slug, slug) && b.DeletedAt == nil {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBoardRepo) ListOwned(_ context.Context, ownerID int64) ([]*domain.Board, error) {
	var out []*domain.Board
	for _, b := range f.boards {
		if b.OwnerID == ownerID && b.DeletedAt == nil {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBoardRepo) NameExists(_ context.Context, name string) (bool, error) {
	for _, b := range f.boards {
		if strings.EqualFold(b.Name, name) && b.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBoardRepo) Update(_ context.Context, b *domain.Board) error {
	if _, ok := f.boards[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	cp.UpdatedAt = time.Now()
	f.boards[b.ID] = &cp
	return nil
}

func (f *fakeBoardRepo) SoftDelete(_ context.Context, id int64) error {
	b, ok := f.boards[id]
	if !ok || b.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	b.DeletedAt = &now
	return nil
}

type fakeColumnRepo struct {
	nextID  int64
	columns map[int64]*domain.Column
}

func newFakeColumnRepo() *fakeColumnRepo {
	return &fakeColumnRepo{columns: map[int64]*domain.Column{}}
}

func (f *fakeColumnRepo) GetByID(_ context.Context, id int64) (*domain.Column, error) {
	c, ok := f.columns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeColumnRepo) ListByBoard(_ context.Context, boardID int64) ([]*domain.Column, error) {
	var out []*domain.Column
	for _, c := range f.columns {
		if c.BoardID == boardID {
			cp := *c
			out = append(out, &cp)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Position < out[i].Position {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeColumnRepo) MaxPosition(_ context.Context, boardID int64) (int, error) {
	max := 0
	for _, c := range f.columns {
		if c.BoardID == boardID && c.Position > max {
			max = c.Position
		}
	}
	return max, nil
}

func (f *fakeColumnRepo) Create(_ context.Context, col *domain.Column) error {
	f.nextID++
	col.ID = f.nextID
	cp := *col
	f.columns[col.ID] = &cp
	return nil
}

func (f *fakeColumnRepo) Update(_ context.Context, col *domain.Column) error {
	if _, ok := f.columns[col.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *col
	f.columns[col.ID] = &cp
	return nil
}

func (f *fakeColumnRepo) Move(_ context.Context, id int64, position int) error {
	c, ok := f.columns[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Position = position
	return nil
}

func (f *fakeColumnRepo) SeedDefaults(ctx context.Context, boardID int64) ([]*domain.Column, error) {
	var out []*domain.Column
	for i, name := range domain.DefaultColumnNames {
		col := &domain.Column{BoardID: boardID, Name: name, Position: i + 1}
		if err := f.Create(ctx, col); err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, nil
}

type fakeHistoryRepo struct {
	nextID  int64
	entries []*domain.HistoryEntry
	fail    bool
}

func newFakeHistoryRepo() *fakeHistoryRepo { return &fakeHistoryRepo{} }

func (f *fakeHistoryRepo) Create(_ context.Context, e *domain.HistoryEntry) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	f.nextID++
	e.ID = f.nextID
	e.ChangedAt = time.Now()
	cp := *e
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeHistoryRepo) CreateWithTx(ctx context.Context, _ pgx.Tx, e *domain.HistoryEntry) error {
	return f.Create(ctx, e)
}

func (f *fakeHistoryRepo) ListByTask(_ context.Context, taskID int64) ([]*domain.HistoryEntry, error) {
	var out []*domain.HistoryEntry
	for _, e := range f.entries {
		if e.TaskID == taskID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) ListByActor(_ context.Context, userID int64, _ int) ([]*domain.HistoryEntry, error) {
	var out []*domain.HistoryEntry
	for _, e := range f.entries {
		if e.ChangedBy == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) ListByChangeType(_ context.Context, changeType string, _ int) ([]*domain.HistoryEntry, error) {
	var out []*domain.HistoryEntry
	for _, e := range f.entries {
		if e.ChangeType == changeType {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeCardRepo struct {
	nextID  int64
	cards   map[int64]*domain.Card
	history *fakeHistoryRepo
}

func newFakeCardRepo(history *fakeHistoryRepo) *fakeCardRepo {
	return &fakeCardRepo{cards: map[int64]*domain.Card{}, history: history}
}

func (f *fakeCardRepo) GetByID(_ context.Context, id int64) (*domain.Card, error) {
	c, ok := f.cards[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCardRepo) GetAnyByID(_ context.Context, id int64) (*domain.Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCardRepo) ListByColumn(_ context.Context, columnID int64) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range f.cards {
		if c.ColumnID == columnID && c.DeletedAt == nil {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCardRepo) ListByBoard(_ context.Context, boardID int64) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range f.cards {
		if c.BoardID == boardID && c.DeletedAt == nil {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCardRepo) MaxPosition(_ context.Context, columnID int64) (int, error) {
	max := 0
	for _, c := range f.cards {
		if c.ColumnID == columnID && c.DeletedAt == nil && c.Position > max {
			max = c.Position
		}
	}
	return max, nil
}

func (f *fakeCardRepo) Create(ctx context.Context, card *domain.Card, entry *domain.HistoryEntry) error {
	if f.history.fail {
		return context.DeadlineExceeded
	}
	f.nextID++
	card.ID = f.nextID
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	cp := *card
	f.cards[card.ID] = &cp
	entry.TaskID = card.ID
	return f.history.Create(ctx, entry)
}

func (f *fakeCardRepo) Update(ctx context.Context, card *domain.Card, entries []*domain.HistoryEntry) error {
	if _, ok := f.cards[card.ID]; !ok {
		return domain.ErrNotFound
	}
	if f.history.fail {
		return context.DeadlineExceeded
	}
	cp := *card
	cp.UpdatedAt = time.Now()
	f.cards[card.ID] = &cp
	for _, e := range entries {
		if err := f.history.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCardRepo) Move(ctx context.Context, cardID, columnID int64, position int, entries []*domain.HistoryEntry) error {
	c, ok := f.cards[cardID]
	if !ok {
		return domain.ErrNotFound
	}
	// Ledger failure rolls the whole move back.
	if f.history.fail {
		return context.DeadlineExceeded
	}
	c.ColumnID = columnID
	c.Position = position
	for _, e := range entries {
		if err := f.history.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCardRepo) SoftDelete(ctx context.Context, cardID int64, entry *domain.HistoryEntry) error {
	c, ok := f.cards[cardID]
	if !ok || c.DeletedAt != nil {
		return domain.ErrNotFound
	}
	if f.history.fail {
		return context.DeadlineExceeded
	}
	now := time.Now()
	c.DeletedAt = &now
	return f.history.Create(ctx, entry)
}

type fakeCommentRepo struct {
	nextID   int64
	comments []*domain.Comment
	history  *fakeHistoryRepo
}

func newFakeCommentRepo(history *fakeHistoryRepo) *fakeCommentRepo {
	return &fakeCommentRepo{history: history}
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *domain.Comment, entry *domain.HistoryEntry) error {
	if f.history.fail {
		return context.DeadlineExceeded
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	cp := *c
	f.comments = append(f.comments, &cp)
	return f.history.Create(ctx, entry)
}

func (f *fakeCommentRepo) ListByCard(_ context.Context, cardID int64) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range f.comments {
		if c.CardID == cardID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeGrantRepo struct {
	grants map[[2]int64]*domain.PermissionGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: map[[2]int64]*domain.PermissionGrant{}}
}

func (f *fakeGrantRepo) Upsert(_ context.Context, g *domain.PermissionGrant) error {
	cp := *g
	f.grants[[2]int64{g.BoardID, g.UserID}] = &cp
	return nil
}

func (f *fakeGrantRepo) Get(_ context.Context, boardID, userID int64) (*domain.PermissionGrant, error) {
	g, ok := f.grants[[2]int64{boardID, userID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGrantRepo) ListForBoard(_ context.Context, boardID int64) ([]*domain.PermissionGrant, error) {
	var out []*domain.PermissionGrant
	for _, g := range f.grants {
		if g.BoardID == boardID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGrantRepo) Revoke(_ context.Context, boardID, userID int64) error {
	key := [2]int64{boardID, userID}
	if _, ok := f.grants[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.grants, key)
	return nil
}

type fakeSearchRepo struct {
	accessible []int64
	rows       []*repository.SearchRow
	queried    bool
}

func (f *fakeSearchRepo) AccessibleBoardIDs(_ context.Context, _ int64) ([]int64, error) {
	return f.accessible, nil
}

func (f *fakeSearchRepo) SearchCards(_ context.Context, term string, boardIDs []int64, _ repository.SearchFilters, limit int) ([]*repository.SearchRow, error) {
	f.queried = true
	allowed := map[int64]bool{}
	for _, id := range boardIDs {
		allowed[id] = true
	}
	var out []*repository.SearchRow
	for _, r := range f.rows {
		if !allowed[r.Card.BoardID] {
			continue
		}
		if !containsFold(r.Card.Title, term) && !containsFold(r.Card.Description, term) &&
			!containsFold(r.BoardName, term) && !containsFold(r.StatusName, term) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// newTestServices wires the fakes into real services the way the handler
// constructor does against Postgres.
type testEnv struct {
	boards   *fakeBoardRepo
	columns  *fakeColumnRepo
	cards    *fakeCardRepo
	comments *fakeCommentRepo
	grants   *fakeGrantRepo
	history  *fakeHistoryRepo

	boardSvc *BoardService
	cardSvc  *CardService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		boards:  newFakeBoardRepo(),
		columns: newFakeColumnRepo(),
		grants:  newFakeGrantRepo(),
		history: newFakeHistoryRepo(),
	}
	env.cards = newFakeCardRepo(env.history)
	env.comments = newFakeCommentRepo(env.history)
	perms := NewPermissionResolver(env.grants)
	env.boardSvc = NewBoardService(env.boards, env.columns, env.cards, env.grants, perms)
	env.cardSvc = NewCardService(env.boards, env.columns, env.cards, env.comments, env.history, perms)
	return env
}
