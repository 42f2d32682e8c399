package integration

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"wikiboard/internal/domain"
	"wikiboard/internal/repository"
	"wikiboard/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func createUser(t *testing.T, db *pgxpool.Pool, username string) domain.User {
	t.Helper()
	users := repository.NewUserRepository(db)
	u := domain.User{Username: username, Registered: true}
	if err := users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func TestBoardFlow_EndToEnd(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	history := repository.NewHistoryRepository(db)
	grants := repository.NewGrantRepository(db)
	boardsRepo := repository.NewBoardRepository(db)
	columnsRepo := repository.NewColumnRepository(db)
	cardsRepo := repository.NewCardRepository(db, history)
	commentsRepo := repository.NewCommentRepository(db, history)
	perms := service.NewPermissionResolver(grants)

	boards := service.NewBoardService(boardsRepo, columnsRepo, cardsRepo, grants, perms)
	cards := service.NewCardService(boardsRepo, columnsRepo, cardsRepo, commentsRepo, history, perms)
	search := service.NewSearchService(repository.NewSearchRepository(db))

	// Unique names so reruns against the same database do not collide.
	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	owner := createUser(t, db, "it-owner-"+suffix)
	viewer := createUser(t, db, "it-viewer-"+suffix)
	prov := domain.Provenance{IP: "127.0.0.1", RequestID: "it-1"}

	board, err := boards.CreateBoard(ctx, owner, "Integration Sprint "+suffix, "flow test", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	view, err := boards.GetBoard(ctx, owner, board.ID)
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	if len(view.Columns) != 3 {
		t.Fatalf("seeded %d columns, want 3", len(view.Columns))
	}
	todo := view.Columns[0].Column

	card, err := cards.AddCard(ctx, owner, prov, todo.ID, service.CardInput{
		Title:       "wire the login flow",
		Description: "login via session cookie",
		Priority:    domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("add card: %v", err)
	}
	if card.Position != 1 {
		t.Errorf("first card position = %d, want 1", card.Position)
	}

	doing := view.Columns[1].Column
	if _, err := cards.MoveCard(ctx, owner, prov, card.ID, doing.ID, 1); err != nil {
		t.Fatalf("move card: %v", err)
	}

	if _, err := cards.AddComment(ctx, owner, prov, card.ID, "half done"); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	entries, err := cards.History(ctx, owner, card.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	// create, move (column_id), comment
	if len(entries) != 3 {
		t.Fatalf("got %d ledger entries, want 3", len(entries))
	}
	if entries[0].ChangeType != domain.ChangeTypeCreate {
		t.Errorf("first entry type = %s, want create", entries[0].ChangeType)
	}
	if entries[0].RequestID != "it-1" {
		t.Errorf("request id not persisted: %q", entries[0].RequestID)
	}

	// Private board: viewer sees nothing until granted.
	if _, err := boards.GetBoard(ctx, viewer, board.ID); err == nil {
		t.Error("viewer read private board without grant")
	}
	results, err := search.Search(ctx, viewer, "login", repository.SearchFilters{}, 10)
	if err != nil {
		t.Fatalf("search as viewer: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("viewer search found %d results on a private board", len(results))
	}

	if err := boards.SetGrant(ctx, owner, board.ID, viewer.ID, domain.PermissionView); err != nil {
		t.Fatalf("set grant: %v", err)
	}
	results, err = search.Search(ctx, viewer, "login", repository.SearchFilters{}, 10)
	if err != nil {
		t.Fatalf("search after grant: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d search results, want 1", len(results))
	}
	if results[0].Score != 100+50 {
		t.Errorf("score = %d, want 150 (title + description)", results[0].Score)
	}

	// Soft delete: gone from reads, ledger intact.
	if err := cards.DeleteCard(ctx, owner, prov, card.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	if _, err := cards.GetCard(ctx, owner, card.ID); err == nil {
		t.Error("deleted card still readable")
	}
	entries, err = cards.History(ctx, owner, card.ID)
	if err != nil {
		t.Fatalf("history after delete: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("got %d ledger entries after delete, want 4", len(entries))
	}

	// The actor and change-type indexes serve these lookups.
	mine, err := cards.ActorActivity(ctx, owner, 50)
	if err != nil {
		t.Fatalf("actor activity: %v", err)
	}
	if len(mine) != 4 {
		t.Errorf("got %d activity entries for owner, want 4", len(mine))
	}
	deletes, err := history.ListByChangeType(ctx, domain.ChangeTypeDelete, 100)
	if err != nil {
		t.Fatalf("list by change type: %v", err)
	}
	found := false
	for _, e := range deletes {
		if e.TaskID == card.ID {
			found = true
		}
	}
	if !found {
		t.Error("delete entry missing from change-type listing")
	}
}
