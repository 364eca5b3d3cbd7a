package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/credit"
	"github.com/fekuna/omnipos-community-store/internal/credit/dto"
	"github.com/fekuna/omnipos-community-store/internal/credit/repository"
	"github.com/fekuna/omnipos-community-store/internal/model"
	memberrepo "github.com/fekuna/omnipos-community-store/internal/member/repository"
	memberusecase "github.com/fekuna/omnipos-community-store/internal/member/usecase"
	"github.com/fekuna/omnipos-community-store/internal/testutil"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func newUseCase(db *sqlx.DB) credit.UseCase {
	log := logger.NewNopLogger()
	members := memberusecase.NewMemberUseCase(memberrepo.NewSQLRepository(db), log)
	return NewCreditUseCase(repository.NewSQLRepository(db), members, decimal.NewFromInt(500), log)
}

func TestIssueCreditCeiling(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db)
	ctx := context.Background()
	m := testutil.InsertMember(t, db, 2)

	_, err := uc.IssueCredit(ctx, &dto.IssueCreditInput{MemberID: m.ID, Amount: decimal.NewFromInt(600)})
	if !errors.Is(err, apperr.ErrCreditLimitExceeded) {
		t.Fatalf("expected ErrCreditLimitExceeded, got %v", err)
	}

	c, err := uc.IssueCredit(ctx, &dto.IssueCreditInput{MemberID: m.ID, Amount: decimal.NewFromInt(500)})
	if err != nil {
		t.Fatalf("IssueCredit at the ceiling failed: %v", err)
	}
	if !c.Remaining.Equal(c.Amount) {
		t.Errorf("remaining %s should equal amount %s", c.Remaining, c.Amount)
	}

	lines, err := uc.ListLines(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListLines failed: %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("expected 1 line, got %d", len(lines))
	}
}

func TestIssueCreditRejections(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db)
	ctx := context.Background()
	m := testutil.InsertMember(t, db, 2)

	if _, err := uc.IssueCredit(ctx, &dto.IssueCreditInput{MemberID: m.ID}); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for zero amount, got %v", err)
	}
	if _, err := uc.IssueCredit(ctx, &dto.IssueCreditInput{MemberID: "missing", Amount: decimal.NewFromInt(10)}); !errors.Is(err, apperr.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestFindUsableLineAndDebit(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db)
	ctx := context.Background()
	m := testutil.InsertMember(t, db, 2)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.InsertCredit(t, db, m.ID, "100", "10", base)
	older := testutil.InsertCredit(t, db, m.ID, "100", "50", base.Add(time.Hour))
	testutil.InsertCredit(t, db, m.ID, "100", "100", base.Add(2*time.Hour))

	line, err := uc.FindUsableLine(ctx, m.ID, decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("FindUsableLine failed: %v", err)
	}
	if line == nil || line.ID != older.ID {
		t.Fatalf("expected the oldest line with enough left, got %+v", line)
	}

	debited, err := uc.Debit(ctx, line.ID, decimal.RequireFromString("40.50"))
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if !debited.Remaining.Equal(decimal.RequireFromString("9.5")) {
		t.Errorf("remaining: got %s, want 9.5", debited.Remaining)
	}

	_, err = uc.Debit(ctx, line.ID, decimal.NewFromInt(10))
	if !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	none, err := uc.FindUsableLine(ctx, m.ID, decimal.NewFromInt(101))
	if err != nil || none != nil {
		t.Errorf("expected no usable line, got %+v, %v", none, err)
	}
}

func TestDebitKeepsExactDecimals(t *testing.T) {
	db := testutil.NewDB(t)
	uc := newUseCase(db)
	ctx := context.Background()
	m := testutil.InsertMember(t, db, 1)
	line := testutil.InsertCredit(t, db, m.ID, "0.30", "0.30", time.Now().UTC())

	for i := 0; i < 3; i++ {
		if _, err := uc.Debit(ctx, line.ID, decimal.RequireFromString("0.10")); err != nil {
			t.Fatalf("debit %d failed: %v", i+1, err)
		}
	}

	var raw string
	if err := db.Get(&raw, db.Rebind(`SELECT remaining FROM credits WHERE id = ?`), line.ID); err != nil {
		t.Fatalf("Failed to read remaining: %v", err)
	}
	if got := decimal.RequireFromString(raw); !got.Equal(decimal.Zero) {
		t.Errorf("stored remaining: got %q, want 0", raw)
	}

	_, err := uc.Debit(ctx, line.ID, decimal.RequireFromString("0.01"))
	if !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

// interleavedRepo changes the balance right after it is read, as another
// writer would.
type interleavedRepo struct {
	credit.Repository
	db *sqlx.DB
}

func (r interleavedRepo) FindByID(ctx context.Context, id string) (*model.Credit, error) {
	c, err := r.Repository.FindByID(ctx, id)
	if err != nil || c == nil {
		return c, err
	}
	if _, err := r.db.Exec(r.db.Rebind(`UPDATE credits SET remaining = ? WHERE id = ?`), decimal.NewFromInt(5), id); err != nil {
		return nil, err
	}
	return c, nil
}

func TestDebitDetectsConcurrentChange(t *testing.T) {
	db := testutil.NewDB(t)
	log := logger.NewNopLogger()
	members := memberusecase.NewMemberUseCase(memberrepo.NewSQLRepository(db), log)
	uc := NewCreditUseCase(interleavedRepo{repository.NewSQLRepository(db), db}, members, decimal.NewFromInt(500), log)
	m := testutil.InsertMember(t, db, 1)
	line := testutil.InsertCredit(t, db, m.ID, "50", "50", time.Now().UTC())

	_, err := uc.Debit(context.Background(), line.ID, decimal.NewFromInt(10))
	if !errors.Is(err, apperr.ErrContention) {
		t.Fatalf("expected ErrContention, got %v", err)
	}

	var c model.Credit
	if err := db.Get(&c, db.Rebind(`SELECT * FROM credits WHERE id = ?`), line.ID); err != nil {
		t.Fatal(err)
	}
	if !c.Remaining.Equal(decimal.NewFromInt(5)) {
		t.Errorf("remaining: got %s, want the other writer's 5", c.Remaining)
	}
}
