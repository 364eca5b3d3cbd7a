package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	catalogrepo "github.com/fekuna/omnipos-community-store/internal/catalog/repository"
	catalogusecase "github.com/fekuna/omnipos-community-store/internal/catalog/usecase"
	memberrepo "github.com/fekuna/omnipos-community-store/internal/member/repository"
	memberusecase "github.com/fekuna/omnipos-community-store/internal/member/usecase"
	"github.com/fekuna/omnipos-community-store/internal/model"
	"github.com/fekuna/omnipos-community-store/internal/ration"
	"github.com/fekuna/omnipos-community-store/internal/ration/dto"
	"github.com/fekuna/omnipos-community-store/internal/ration/repository"
	"github.com/fekuna/omnipos-community-store/internal/testutil"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/jmoiron/sqlx"
)

func newUseCase(db *sqlx.DB, defaults map[string]int64) ration.UseCase {
	log := logger.NewNopLogger()
	members := memberusecase.NewMemberUseCase(memberrepo.NewSQLRepository(db), log)
	items := catalogusecase.NewCatalogUseCase(catalogrepo.NewSQLRepository(db), nil, log)
	return NewRationUseCase(repository.NewSQLRepository(db), members, items, defaults, log)
}

func TestRenewCardResolvesItemNames(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db, nil)
	m := testutil.InsertMember(t, db, 4)
	beans := testutil.InsertItem(t, db, "Beans", "2.00", "3.00", 100)
	maize := testutil.InsertItem(t, db, "Maize", "1.50", "2.50", 200)

	card, err := uc.RenewCard(context.Background(), &dto.RenewCardInput{
		MemberID:  m.ID,
		Year:      2024,
		Allowance: map[string]int64{"Beans": 100, maize.ID: 40},
	})
	if err != nil {
		t.Fatalf("RenewCard failed: %v", err)
	}
	if card.Allowance.Get(beans.ID) != 100 || card.Allowance.Get(maize.ID) != 40 {
		t.Errorf("unexpected allowance: %v", card.Allowance)
	}
	if len(card.Consumed) != 0 {
		t.Errorf("fresh card should have nothing consumed, got %v", card.Consumed)
	}
}

func TestRenewCardDefaultAllowance(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db, map[string]int64{"Beans": 25, "Maize": 50, "Soap": 20})
	m := testutil.InsertMember(t, db, 3)
	beans := testutil.InsertItem(t, db, "Beans", "2.00", "3.00", 100)
	maize := testutil.InsertItem(t, db, "Maize", "1.50", "2.50", 200)

	card, err := uc.RenewCard(context.Background(), &dto.RenewCardInput{MemberID: m.ID, Year: 2024})
	if err != nil {
		t.Fatalf("RenewCard failed: %v", err)
	}
	if card.Allowance.Get(beans.ID) != 75 || card.Allowance.Get(maize.ID) != 150 {
		t.Errorf("unexpected allowance: %v", card.Allowance)
	}
	// Soap is not in the catalog and is skipped.
	if len(card.Allowance) != 2 {
		t.Errorf("expected 2 allowance entries, got %v", card.Allowance)
	}
}

func TestRenewCardDuplicateLeavesFirstUntouched(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db, nil)
	ctx := context.Background()
	m := testutil.InsertMember(t, db, 2)
	beans := testutil.InsertItem(t, db, "Beans", "2.00", "3.00", 100)

	first, err := uc.RenewCard(ctx, &dto.RenewCardInput{MemberID: m.ID, Year: 2024, Allowance: map[string]int64{beans.ID: 100}})
	if err != nil {
		t.Fatalf("first renewal failed: %v", err)
	}

	_, err = uc.RenewCard(ctx, &dto.RenewCardInput{MemberID: m.ID, Year: 2024, Allowance: map[string]int64{beans.ID: 999}})
	if !errors.Is(err, apperr.ErrDuplicateCard) {
		t.Fatalf("expected ErrDuplicateCard, got %v", err)
	}

	got, err := uc.GetCard(ctx, m.ID, 2024)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if got.ID != first.ID || got.Allowance.Get(beans.ID) != 100 {
		t.Errorf("first card changed: %+v", got)
	}

	// A new year is a fresh card with no carry-over.
	next, err := uc.RenewCard(ctx, &dto.RenewCardInput{MemberID: m.ID, Year: 2025, Allowance: map[string]int64{beans.ID: 50}})
	if err != nil {
		t.Fatalf("next year renewal failed: %v", err)
	}
	if next.Allowance.Get(beans.ID) != 50 {
		t.Errorf("unexpected allowance: %v", next.Allowance)
	}
}

func TestRenewCardRejections(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db, nil)
	ctx := context.Background()
	m := testutil.InsertMember(t, db, 2)

	_, err := uc.RenewCard(ctx, &dto.RenewCardInput{MemberID: "missing", Year: 2024})
	if !errors.Is(err, apperr.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}

	_, err = uc.RenewCard(ctx, &dto.RenewCardInput{MemberID: m.ID, Year: 2024, Allowance: map[string]int64{"Rice": 10}})
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error for unknown item, got %v", err)
	}

	_, err = uc.RenewCard(ctx, &dto.RenewCardInput{MemberID: m.ID, Year: 2024, Allowance: map[string]int64{"Rice": -1}})
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error for negative quota, got %v", err)
	}
}

func TestRecordConsumption(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db, nil)
	ctx := context.Background()
	m := testutil.InsertMember(t, db, 4)
	card := testutil.InsertCard(t, db, m.ID, 2024, model.Quantities{"beans": 100}, model.Quantities{"beans": 80})

	updated, err := uc.RecordConsumption(ctx, card.ID, "beans", 15)
	if err != nil {
		t.Fatalf("RecordConsumption failed: %v", err)
	}
	if updated.Consumed.Get("beans") != 95 {
		t.Errorf("consumed: got %d, want 95", updated.Consumed.Get("beans"))
	}

	if _, err := uc.RecordConsumption(ctx, card.ID, "beans", 6); !errors.Is(err, apperr.ErrAllowanceExceeded) {
		t.Errorf("expected ErrAllowanceExceeded, got %v", err)
	}

	stored, _ := uc.GetCard(ctx, m.ID, 2024)
	if stored.Consumed.Get("beans") != 95 {
		t.Errorf("stored consumed: got %d, want 95", stored.Consumed.Get("beans"))
	}

	if _, err := uc.RecordConsumption(ctx, "missing", "beans", 1); !errors.Is(err, apperr.ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

// interleavedRepo records consumption of another item right after the card
// is read, as a second writer would.
type interleavedRepo struct {
	ration.Repository
	db      *sqlx.DB
	itemID  string
	pending bool
}

func (r *interleavedRepo) FindByID(ctx context.Context, id string) (*model.RationCard, error) {
	card, err := r.Repository.FindByID(ctx, id)
	if err != nil || card == nil || !r.pending {
		return card, err
	}
	r.pending = false

	consumed := card.Consumed.Clone()
	consumed[r.itemID] += 2
	if _, err := r.db.Exec(r.db.Rebind(`UPDATE ration_cards SET consumed = ? WHERE id = ?`), consumed, id); err != nil {
		return nil, err
	}
	return card, nil
}

func TestRecordConsumptionDoesNotLoseConcurrentUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	log := logger.NewNopLogger()
	members := memberusecase.NewMemberUseCase(memberrepo.NewSQLRepository(db), log)
	items := catalogusecase.NewCatalogUseCase(catalogrepo.NewSQLRepository(db), nil, log)
	m := testutil.InsertMember(t, db, 1)
	beans := testutil.InsertItem(t, db, "Beans", "2.00", "3.00", 100)
	soap := testutil.InsertItem(t, db, "Soap", "1.00", "1.50", 100)
	card := testutil.InsertCard(t, db, m.ID, 2024, model.Quantities{beans.ID: 10, soap.ID: 10}, model.Quantities{})

	repo := &interleavedRepo{Repository: repository.NewSQLRepository(db), db: db, itemID: soap.ID, pending: true}
	uc := NewRationUseCase(repo, members, items, nil, log)
	ctx := context.Background()

	_, err := uc.RecordConsumption(ctx, card.ID, beans.ID, 3)
	if !errors.Is(err, apperr.ErrContention) {
		t.Fatalf("expected ErrContention on a stale card, got %v", err)
	}

	got, err := uc.RecordConsumption(ctx, card.ID, beans.ID, 3)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got.Consumed.Get(beans.ID) != 3 || got.Consumed.Get(soap.ID) != 2 {
		t.Errorf("consumed: got %v, want beans 3 and soap 2", got.Consumed)
	}

	stored, err := uc.GetCard(ctx, m.ID, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Consumed.Get(beans.ID) != 3 || stored.Consumed.Get(soap.ID) != 2 {
		t.Errorf("stored consumed: got %v", stored.Consumed)
	}
}
