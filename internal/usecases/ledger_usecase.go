package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/domain/repositories"
)

// LedgerUsecase owns the append-only points ledger. Every balance change in
// the system flows through Append; nothing else inserts ledger rows.
type LedgerUsecase struct {
	ledgerRepo   repositories.LedgerRepository
	customerRepo repositories.CustomerRepository
	auditRepo    repositories.AuditLogRepository
	rules        *RulesUsecase
	uow          repositories.UnitOfWork
	now          func() time.Time
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(
	ledgerRepo repositories.LedgerRepository,
	customerRepo repositories.CustomerRepository,
	auditRepo repositories.AuditLogRepository,
	rules *RulesUsecase,
	uow repositories.UnitOfWork,
) *LedgerUsecase {
	return &LedgerUsecase{
		ledgerRepo:   ledgerRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		rules:        rules,
		uow:          uow,
		now:          time.Now,
	}
}

// Append inserts a ledger entry exactly once per (merchant, idempotency key).
// When the key already has an entry, the stored entry is returned with
// Replayed set and nothing is written. It must be called inside a transaction
// opened by the caller.
func (u *LedgerUsecase) Append(ctx context.Context, entry *entities.LedgerEntry) (*entities.AppendResult, error) {
	if entry.IdempotencyKey == "" {
		return nil, domainerrors.BadRequest("idempotencyKey is required")
	}

	err := u.ledgerRepo.Insert(ctx, entry)
	if err == nil {
		return &entities.AppendResult{Entry: entry, Replayed: false}, nil
	}
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		return nil, err
	}

	stored, err := u.ledgerRepo.GetByIdempotencyKey(ctx, entry.MerchantID, entry.IdempotencyKey)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrIdempotencyConflict
		}
		return nil, err
	}
	return &entities.AppendResult{Entry: stored, Replayed: true}, nil
}

// Earn credits points for a purchase. The customer row is locked for the
// duration of the transaction, the rule version in effect at the time of the
// call decides the delta, and the entry records which version that was.
// Replaying an idempotency key returns the original outcome without writing.
func (u *LedgerUsecase) Earn(ctx context.Context, merchantID uuid.UUID, input *entities.EarnInput) (*entities.EarnResult, error) {
	if input.Amount.Sign() <= 0 {
		return nil, domainerrors.BadRequest("amount must be positive")
	}
	source := input.Source
	if source == "" {
		source = entities.EntrySourceTerminal
	}

	var result *entities.EarnResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		customer, err := u.customerRepo.LockForUpdate(txCtx, merchantID, input.CustomerID)
		if err != nil {
			return err
		}
		if customer.Status == entities.CustomerStatusBlocked {
			return domainerrors.ErrCustomerBlocked
		}

		rule, err := u.rules.ResolveActiveRule(txCtx, merchantID, u.now())
		if err != nil {
			return err
		}
		points, err := ComputePoints(input.Amount, rule)
		if err != nil {
			return err
		}

		entry := &entities.LedgerEntry{
			MerchantID:     merchantID,
			CustomerID:     input.CustomerID,
			Type:           entities.EntryTypeEarn,
			PointsDelta:    points,
			Source:         source,
			RuleVersionID:  &rule.ID,
			IdempotencyKey: input.IdempotencyKey,
		}
		if input.ExternalID != "" {
			entry.ExternalID.SetValid(input.ExternalID)
		}

		appended, err := u.Append(txCtx, entry)
		if err != nil {
			return err
		}

		balance, err := u.ledgerRepo.SumDeltas(txCtx, merchantID, appended.Entry.CustomerID)
		if err != nil {
			return err
		}

		result = &entities.EarnResult{
			EntryID:     appended.Entry.ID,
			PointsDelta: appended.Entry.PointsDelta,
			Balance:     balance,
			Idempotent:  appended.Replayed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Adjust applies an owner-initiated manual correction. The delta may be
// negative and may drive the balance below zero; the reason is mandatory and
// an audit row is written in the same transaction.
func (u *LedgerUsecase) Adjust(ctx context.Context, merchantID uuid.UUID, actorID *uuid.UUID, input *entities.AdjustInput) (*entities.AdjustResult, error) {
	if input.PointsDelta == 0 {
		return nil, domainerrors.BadRequest("pointsDelta must be non-zero")
	}
	if input.Reason == "" {
		return nil, domainerrors.BadRequest("reason is required")
	}

	var result *entities.AdjustResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.customerRepo.LockForUpdate(txCtx, merchantID, input.CustomerID); err != nil {
			return err
		}

		entry := &entities.LedgerEntry{
			MerchantID:     merchantID,
			CustomerID:     input.CustomerID,
			Type:           entities.EntryTypeAdjust,
			PointsDelta:    input.PointsDelta,
			Source:         entities.EntrySourceAdmin,
			IdempotencyKey: input.IdempotencyKey,
		}
		entry.ExternalID.SetValid(input.Reason)

		appended, err := u.Append(txCtx, entry)
		if err != nil {
			return err
		}

		if !appended.Replayed {
			if err := u.auditRepo.Create(txCtx, &entities.AuditLog{
				MerchantID: merchantID,
				ActorID:    actorID,
				Action:     "ledger.adjust",
				TargetType: "ledger_entry",
				TargetID:   appended.Entry.ID,
			}); err != nil {
				return err
			}
		}

		balance, err := u.ledgerRepo.SumDeltas(txCtx, merchantID, input.CustomerID)
		if err != nil {
			return err
		}

		result = &entities.AdjustResult{
			EntryID:     appended.Entry.ID,
			PointsDelta: appended.Entry.PointsDelta,
			Balance:     balance,
			Idempotent:  appended.Replayed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBalance derives the customer's balance from the ledger. There is no
// stored balance column to drift out of sync.
func (u *LedgerUsecase) GetBalance(ctx context.Context, merchantID, customerID uuid.UUID) (int64, error) {
	if _, err := u.customerRepo.GetByID(ctx, merchantID, customerID); err != nil {
		return 0, err
	}
	return u.ledgerRepo.SumDeltas(ctx, merchantID, customerID)
}

// ListLedger returns the customer's entries, newest first.
func (u *LedgerUsecase) ListLedger(ctx context.Context, merchantID, customerID uuid.UUID, limit int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return u.ledgerRepo.List(ctx, merchantID, customerID, limit)
}
