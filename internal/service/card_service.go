package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wikiboard/internal/domain"
	"wikiboard/internal/repository"
)

// CardInput carries the full field set for card create/update. Update has
// replace semantics: optional fields left nil are cleared on the card,
// not kept.
type CardInput struct {
	Title       string
	Description string
	AssigneeID  *int64
	Priority    domain.Priority
	Color       string
	DueDate     *time.Time
}

// CardService orchestrates card mutations. Every mutation is recorded in
// the task history ledger inside the same transaction as the row change;
// if the ledger write fails, the mutation fails with it.
type CardService struct {
	boards   repository.BoardRepository
	columns  repository.ColumnRepository
	cards    repository.CardRepository
	comments repository.CommentRepository
	history  repository.HistoryRepository
	perms    *PermissionResolver
}

func NewCardService(
	boards repository.BoardRepository,
	columns repository.ColumnRepository,
	cards repository.CardRepository,
	comments repository.CommentRepository,
	history repository.HistoryRepository,
	perms *PermissionResolver,
) *CardService {
	return &CardService{boards: boards, columns: columns, cards: cards, comments: comments, history: history, perms: perms}
}

// AddCard appends a card to the column: position = max among non-deleted
// siblings + 1 (0 for an empty column). The find-max and the insert are
// separate statements; concurrent appends can race (retained behavior).
func (s *CardService) AddCard(ctx context.Context, user domain.User, prov domain.Provenance, columnID int64, in CardInput) (*domain.Card, error) {
	col, err := s.columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, col.BoardID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	if err := validateCardInput(&in); err != nil {
		return nil, err
	}

	max, err := s.cards.MaxPosition(ctx, columnID)
	if err != nil {
		return nil, err
	}

	card := &domain.Card{
		ColumnID:    columnID,
		BoardID:     col.BoardID,
		Title:       in.Title,
		Description: in.Description,
		AssigneeID:  in.AssigneeID,
		CreatorID:   user.ID,
		Priority:    in.Priority,
		Color:       in.Color,
		Position:    max + 1,
		DueDate:     in.DueDate,
	}
	entry := newEntry(user, prov, domain.ChangeTypeCreate, "card", "", in.Title)
	if err := s.cards.Create(ctx, card, entry); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateCard replaces all mutable fields of the card and records one
// history entry per field that actually changed.
func (s *CardService) UpdateCard(ctx context.Context, user domain.User, prov domain.Provenance, cardID int64, in CardInput) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, card.BoardID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	if err := validateCardInput(&in); err != nil {
		return nil, err
	}

	var entries []*domain.HistoryEntry
	diff := func(field, old, new string) {
		if old != new {
			entries = append(entries, newEntry(user, prov, domain.ChangeTypeUpdate, field, old, new))
		}
	}
	diff("title", card.Title, in.Title)
	diff("description", card.Description, in.Description)
	diff("assignee_id", int64PtrValue(card.AssigneeID), int64PtrValue(in.AssigneeID))
	diff("priority", string(card.Priority), string(in.Priority))
	diff("due_date", timePtrValue(card.DueDate), timePtrValue(in.DueDate))
	for _, e := range entries {
		e.TaskID = cardID
	}

	card.Title = in.Title
	card.Description = in.Description
	card.AssigneeID = in.AssigneeID
	card.Priority = in.Priority
	card.Color = in.Color
	card.DueDate = in.DueDate

	if err := s.cards.Update(ctx, card, entries); err != nil {
		return nil, err
	}
	return card, nil
}

// MoveCard reassigns the card's column and position. The pair is written
// by a single statement: a failed move leaves the old (column, position)
// intact, never a mix. The position is taken from the caller as-is and
// siblings are not renumbered; the store tolerates collisions.
//
// The store layer itself would accept a column on another board; the
// guard lives here because this service is the only sanctioned caller.
func (s *CardService) MoveCard(ctx context.Context, user domain.User, prov domain.Provenance, cardID, newColumnID int64, newPosition int) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, card.BoardID, domain.PermissionEdit); err != nil {
		return nil, err
	}

	target, err := s.columns.GetByID(ctx, newColumnID)
	if err != nil {
		return nil, err
	}
	if target.BoardID != card.BoardID {
		return nil, fmt.Errorf("%w: target column belongs to another board", domain.ErrValidation)
	}
	if newPosition < 1 {
		return nil, fmt.Errorf("%w: position must be positive", domain.ErrValidation)
	}

	var entries []*domain.HistoryEntry
	if card.ColumnID != newColumnID {
		entries = append(entries, newEntry(user, prov, domain.ChangeTypeMove, "column_id",
			strconv.FormatInt(card.ColumnID, 10), strconv.FormatInt(newColumnID, 10)))
	}
	if card.Position != newPosition {
		entries = append(entries, newEntry(user, prov, domain.ChangeTypeMove, "position",
			strconv.Itoa(card.Position), strconv.Itoa(newPosition)))
	}
	for _, e := range entries {
		e.TaskID = cardID
	}

	if err := s.cards.Move(ctx, cardID, newColumnID, newPosition, entries); err != nil {
		return nil, err
	}
	card.ColumnID = newColumnID
	card.Position = newPosition
	return card, nil
}

// DeleteCard soft-deletes the card. Its history remains queryable.
func (s *CardService) DeleteCard(ctx context.Context, user domain.User, prov domain.Provenance, cardID int64) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if _, err := s.resolveBoard(ctx, user, card.BoardID, domain.PermissionEdit); err != nil {
		return err
	}

	entry := newEntry(user, prov, domain.ChangeTypeDelete, "card", card.Title, "")
	entry.TaskID = cardID
	return s.cards.SoftDelete(ctx, cardID, entry)
}

// GetCard returns a single non-deleted card after a view check.
func (s *CardService) GetCard(ctx context.Context, user domain.User, cardID int64) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, card.BoardID, domain.PermissionView); err != nil {
		return nil, err
	}
	return card, nil
}

// AddComment appends a comment to the card. Comments are never edited or
// deleted afterwards.
func (s *CardService) AddComment(ctx context.Context, user domain.User, prov domain.Provenance, cardID int64, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", domain.ErrValidation)
	}
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, card.BoardID, domain.PermissionEdit); err != nil {
		return nil, err
	}

	comment := &domain.Comment{CardID: cardID, UserID: user.ID, Text: text}
	entry := newEntry(user, prov, domain.ChangeTypeComment, "comment", "", text)
	entry.TaskID = cardID
	if err := s.comments.Create(ctx, comment, entry); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments returns the card's comments in chronological order.
func (s *CardService) Comments(ctx context.Context, user domain.User, cardID int64) ([]*domain.Comment, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, card.BoardID, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.comments.ListByCard(ctx, cardID)
}

// History returns the card's full change trail ordered by time,
// unbounded. It works for soft-deleted cards too: deleting a task never
// touches its ledger.
func (s *CardService) History(ctx context.Context, user domain.User, cardID int64) ([]*domain.HistoryEntry, error) {
	card, err := s.cards.GetAnyByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, card.BoardID, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.history.ListByTask(ctx, cardID)
}

// ActorActivity returns the caller's own recent ledger entries, newest
// first. Scoped to the caller; there is no cross-user activity view.
func (s *CardService) ActorActivity(ctx context.Context, user domain.User, limit int) ([]*domain.HistoryEntry, error) {
	if user.ID == 0 {
		return nil, domain.ErrPermissionDenied
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.history.ListByActor(ctx, user.ID, limit)
}

func (s *CardService) resolveBoard(ctx context.Context, user domain.User, boardID int64, level domain.PermissionLevel) (*domain.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Resolve(ctx, board, user, level); err != nil {
		return nil, err
	}
	return board, nil
}

func validateCardInput(in *CardInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: card title is required", domain.ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, in.Priority)
	}
	return nil
}

func newEntry(user domain.User, prov domain.Provenance, changeType, field, old, new string) *domain.HistoryEntry {
	return &domain.HistoryEntry{
		FieldName:  field,
		OldValue:   old,
		NewValue:   new,
		ChangedBy:  user.ID,
		ChangeType: changeType,
		IP:         prov.IP,
		UserAgent:  prov.UserAgent,
		RequestID:  prov.RequestID,
	}
}

func int64PtrValue(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func timePtrValue(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.UTC().Format(time.RFC3339)
}
