package service

import (
	"context"
	"errors"
	"testing"

	"wikiboard/internal/domain"
)

var (
	alice = domain.User{ID: 1, Username: "alice", Registered: true}
	bob   = domain.User{ID: 2, Username: "bob", Registered: true}
	guest = domain.User{ID: 3, Username: "guest", Registered: false}
)

func TestCreateBoard_SeedsDefaultColumns(t *testing.T) {
	env := newTestEnv()

	board, err := env.boardSvc.CreateBoard(context.Background(), alice, "Sprint 1", "", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if board.OwnerID != alice.ID {
		t.Errorf("owner = %d, want %d", board.OwnerID, alice.ID)
	}
	if board.Slug != "sprint-1" {
		t.Errorf("slug = %q, want %q", board.Slug, "sprint-1")
	}

	cols, err := env.columns.ListByBoard(context.Background(), board.ID)
	if err != nil {
		t.Fatalf("list columns: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	for i, want := range domain.DefaultColumnNames {
		if cols[i].Name != want {
			t.Errorf("column %d = %q, want %q", i, cols[i].Name, want)
		}
		if cols[i].Position != i+1 {
			t.Errorf("column %q position = %d, want %d", cols[i].Name, cols[i].Position, i+1)
		}
	}
}

func TestCreateBoard_RequiresRegisteredUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.boardSvc.CreateBoard(context.Background(), guest, "Sprint 1", "", domain.VisibilityPrivate)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("unregistered create: got %v, want permission denied", err)
	}
	_, err = env.boardSvc.CreateBoard(context.Background(), domain.Anonymous, "Sprint 1", "", domain.VisibilityPrivate)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("anonymous create: got %v, want permission denied", err)
	}
}

func TestCreateBoard_DuplicateNameCaseInsensitive(t *testing.T) {
	env := newTestEnv()

	if _, err := env.boardSvc.CreateBoard(context.Background(), alice, "Roadmap", "", domain.VisibilityPrivate); err != nil {
		t.Fatalf("create board: %v", err)
	}
	_, err := env.boardSvc.CreateBoard(context.Background(), bob, "ROADMAP", "", domain.VisibilityPrivate)
	if !errors.Is(err, domain.ErrDuplicateName) {
		t.Errorf("duplicate name: got %v, want duplicate name error", err)
	}
}

func TestCreateBoard_NameFreedBySoftDelete(t *testing.T) {
	env := newTestEnv()

	first, err := env.boardSvc.CreateBoard(context.Background(), alice, "Roadmap", "", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if err := env.boardSvc.DeleteBoard(context.Background(), alice, first.ID); err != nil {
		t.Fatalf("delete board: %v", err)
	}
	if _, err := env.boardSvc.CreateBoard(context.Background(), bob, "Roadmap", "", domain.VisibilityPrivate); err != nil {
		t.Errorf("reuse of freed name rejected: %v", err)
	}
}

func TestDeleteBoard_OwnerStillResolvesView(t *testing.T) {
	env := newTestEnv()

	board, err := env.boardSvc.CreateBoard(context.Background(), alice, "Archive", "", domain.VisibilityPublic)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if err := env.boardSvc.DeleteBoard(context.Background(), alice, board.ID); err != nil {
		t.Fatalf("delete board: %v", err)
	}

	if err := env.boardSvc.CanView(context.Background(), alice, board.ID); err != nil {
		t.Errorf("owner view of deleted board: %v", err)
	}
	err = env.boardSvc.CanView(context.Background(), bob, board.ID)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("non-owner view of deleted board: got %v, want permission denied", err)
	}
}

func TestAddColumn_AppendsAtMaxPlusOne(t *testing.T) {
	env := newTestEnv()

	board, err := env.boardSvc.CreateBoard(context.Background(), alice, "Sprint 1", "", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	col, err := env.boardSvc.AddColumn(context.Background(), alice, board.ID, "review", "", nil)
	if err != nil {
		t.Fatalf("add column: %v", err)
	}
	if col.Position != 4 {
		t.Errorf("appended column position = %d, want 4", col.Position)
	}
}

func TestMoveColumn_WritesPositionWithoutRenumbering(t *testing.T) {
	env := newTestEnv()

	board, err := env.boardSvc.CreateBoard(context.Background(), alice, "Sprint 1", "", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	cols, _ := env.columns.ListByBoard(context.Background(), board.ID)

	// Move "done" to position 1; "todo" keeps position 1 too.
	if err := env.boardSvc.MoveColumn(context.Background(), alice, cols[2].ID, 1); err != nil {
		t.Fatalf("move column: %v", err)
	}
	moved, _ := env.columns.GetByID(context.Background(), cols[2].ID)
	if moved.Position != 1 {
		t.Errorf("moved column position = %d, want 1", moved.Position)
	}
	untouched, _ := env.columns.GetByID(context.Background(), cols[0].ID)
	if untouched.Position != 1 {
		t.Errorf("sibling was renumbered: position = %d, want 1", untouched.Position)
	}
}

func TestUpdateBoard_RenameToOwnNameAllowed(t *testing.T) {
	env := newTestEnv()

	board, err := env.boardSvc.CreateBoard(context.Background(), alice, "Roadmap", "", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if _, err := env.boardSvc.UpdateBoard(context.Background(), alice, board.ID, "roadmap", "new desc", domain.VisibilityPublic); err != nil {
		t.Errorf("case-only rename rejected: %v", err)
	}
}

func TestGrants_AdminOnly(t *testing.T) {
	env := newTestEnv()

	board, err := env.boardSvc.CreateBoard(context.Background(), alice, "Team", "", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	err = env.boardSvc.SetGrant(context.Background(), bob, board.ID, bob.ID, domain.PermissionAdmin)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("non-admin set grant: got %v, want permission denied", err)
	}

	if err := env.boardSvc.SetGrant(context.Background(), alice, board.ID, bob.ID, domain.PermissionEdit); err != nil {
		t.Fatalf("owner set grant: %v", err)
	}
	// Edit grant does not unlock grant management.
	err = env.boardSvc.SetGrant(context.Background(), bob, board.ID, 99, domain.PermissionView)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("editor set grant: got %v, want permission denied", err)
	}

	if err := env.boardSvc.RevokeGrant(context.Background(), alice, board.ID, bob.ID); err != nil {
		t.Fatalf("revoke grant: %v", err)
	}
	err = env.boardSvc.RevokeGrant(context.Background(), alice, board.ID, bob.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("revoke missing grant: got %v, want not found", err)
	}
}

func TestGetBoard_ViewGroupsCardsByColumn(t *testing.T) {
	env := newTestEnv()

	board, err := env.boardSvc.CreateBoard(context.Background(), alice, "Sprint 1", "", domain.VisibilityPrivate)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	cols, _ := env.columns.ListByBoard(context.Background(), board.ID)

	prov := domain.Provenance{}
	for _, title := range []string{"first", "second"} {
		if _, err := env.cardSvc.AddCard(context.Background(), alice, prov, cols[0].ID, CardInput{Title: title}); err != nil {
			t.Fatalf("add card %q: %v", title, err)
		}
	}

	view, err := env.boardSvc.GetBoard(context.Background(), alice, board.ID)
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	if len(view.Columns) != 3 {
		t.Fatalf("got %d columns in view, want 3", len(view.Columns))
	}
	if len(view.Columns[0].Cards) != 2 {
		t.Errorf("todo column has %d cards, want 2", len(view.Columns[0].Cards))
	}
	if len(view.Columns[1].Cards) != 0 {
		t.Errorf("doing column has %d cards, want 0", len(view.Columns[1].Cards))
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Sprint 1", "sprint-1"},
		{"  Q3 / Roadmap  ", "q3-roadmap"},
		{"release---notes", "release-notes"},
		{"Ünïcode Board", "n-code-board"},
		{"trailing!", "trailing"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
