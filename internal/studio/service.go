// Package studio manages persisted designs: CRUD, membership and versioned
// snapshots of the stitch document.
package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/store"
	"github.com/closset/closset/engine-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("design not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a design member")
)

type Service struct {
	store  *store.Store
	width  int
	height int
}

func NewService(st *store.Store, canvasWidth, canvasHeight int) *Service {
	return &Service{store: st, width: canvasWidth, height: canvasHeight}
}

type Design struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Design, error) {
	designID := typeid.NewDesignID()

	dbDesign, err := s.store.CreateDesign(ctx, store.Design{
		ID:      designID,
		Name:    name,
		OwnerID: ownerID,
		Width:   int32(s.width),
		Height:  int32(s.height),
	})
	if err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}

	if err := s.store.AddMember(ctx, designID, ownerID, store.RoleOwner); err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	// Seed version 1 with an empty design so clients always have a document
	// to load.
	empty := design.New(typeid.NewLayerID())
	doc, err := json.Marshal(empty)
	if err != nil {
		return nil, fmt.Errorf("marshal empty design: %w", err)
	}
	if _, err := s.store.CreateSnapshot(ctx, typeid.NewSnapshotID(), designID, doc); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toDesign(dbDesign), nil
}

func (s *Service) Get(ctx context.Context, designID, userID string) (*Design, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return nil, err
	}

	dbDesign, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get design: %w", err)
	}

	return toDesign(dbDesign), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Design, error) {
	dbDesigns, err := s.store.ListDesignsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}

	designs := make([]Design, len(dbDesigns))
	for i, d := range dbDesigns {
		designs[i] = *toDesign(d)
	}
	return designs, nil
}

func (s *Service) Delete(ctx context.Context, designID, userID string) error {
	dbDesign, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get design: %w", err)
	}

	if dbDesign.OwnerID != userID {
		return ErrForbidden
	}

	return s.store.DeleteDesign(ctx, designID)
}

func (s *Service) InviteByEmail(ctx context.Context, designID, ownerID, inviteeEmail string) error {
	dbDesign, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get design: %w", err)
	}

	if dbDesign.OwnerID != ownerID {
		return ErrForbidden
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	return s.store.AddMember(ctx, designID, invitee.ID, store.RoleEditor)
}

func (s *Service) ListMembers(ctx context.Context, designID, userID string) ([]Member, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.store.ListMembers(ctx, designID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, designID, ownerID, targetUserID string) error {
	dbDesign, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get design: %w", err)
	}

	if dbDesign.OwnerID != ownerID {
		return ErrForbidden
	}

	if targetUserID == ownerID {
		return errors.New("cannot remove design owner")
	}

	return s.store.RemoveMember(ctx, designID, targetUserID)
}

// SaveSnapshot persists the full design document as the next version.
func (s *Service) SaveSnapshot(ctx context.Context, designID, userID string, doc json.RawMessage) (int, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return 0, err
	}

	// Reject documents that do not decode as a design before they reach
	// storage; a malformed save must not poison the latest version.
	var d design.Design
	if err := json.Unmarshal(doc, &d); err != nil {
		return 0, fmt.Errorf("decode design document: %w", err)
	}

	snap, err := s.store.CreateSnapshot(ctx, typeid.NewSnapshotID(), designID, doc)
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}
	return int(snap.Version), nil
}

// GetLatestSnapshot returns the newest stored design document.
func (s *Service) GetLatestSnapshot(ctx context.Context, designID, userID string) (json.RawMessage, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return nil, err
	}

	snap, err := s.store.GetLatestSnapshot(ctx, designID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Document, nil
}

func (s *Service) checkMembership(ctx context.Context, designID, userID string) error {
	_, err := s.store.GetMember(ctx, designID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func toDesign(d store.Design) *Design {
	return &Design{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		Width:     int(d.Width),
		Height:    int(d.Height),
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
