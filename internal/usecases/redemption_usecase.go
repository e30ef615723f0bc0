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

// RedemptionUsecase coordinates spending points on rewards. The redeem ledger
// entry and the redemption record are created in one transaction; a redemption
// without its entry (or the reverse) cannot exist.
type RedemptionUsecase struct {
	ledger         *LedgerUsecase
	ledgerRepo     repositories.LedgerRepository
	customerRepo   repositories.CustomerRepository
	rewardRepo     repositories.RewardRepository
	redemptionRepo repositories.RedemptionRepository
	auditRepo      repositories.AuditLogRepository
	uow            repositories.UnitOfWork
	now            func() time.Time
}

// NewRedemptionUsecase creates a new redemption usecase
func NewRedemptionUsecase(
	ledger *LedgerUsecase,
	ledgerRepo repositories.LedgerRepository,
	customerRepo repositories.CustomerRepository,
	rewardRepo repositories.RewardRepository,
	redemptionRepo repositories.RedemptionRepository,
	auditRepo repositories.AuditLogRepository,
	uow repositories.UnitOfWork,
) *RedemptionUsecase {
	return &RedemptionUsecase{
		ledger:         ledger,
		ledgerRepo:     ledgerRepo,
		customerRepo:   customerRepo,
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		auditRepo:      auditRepo,
		uow:            uow,
		now:            time.Now,
	}
}

// Redeem spends points on a reward. The customer row is locked first, so the
// balance read cannot race another spend. The idempotency key is checked
// before the balance: replaying a redeem that already went through returns the
// original outcome even though the points are already gone.
func (u *RedemptionUsecase) Redeem(ctx context.Context, merchantID uuid.UUID, actorID *uuid.UUID, input *entities.RedeemInput) (*entities.RedeemResult, error) {
	if input.IdempotencyKey == "" {
		return nil, domainerrors.BadRequest("idempotencyKey is required")
	}

	var result *entities.RedeemResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		customer, err := u.customerRepo.LockForUpdate(txCtx, merchantID, input.CustomerID)
		if err != nil {
			return err
		}
		if customer.Status == entities.CustomerStatusBlocked {
			return domainerrors.ErrCustomerBlocked
		}

		// replay before any other check: the points were already deducted the
		// first time around, and the stored outcome stays valid even if the
		// reward was retired since
		stored, err := u.ledgerRepo.GetByIdempotencyKey(txCtx, merchantID, input.IdempotencyKey)
		if err == nil {
			redemption, err := u.redemptionRepo.GetByLedgerEntryID(txCtx, merchantID, stored.ID)
			if err != nil {
				return err
			}
			balance, err := u.ledgerRepo.SumDeltas(txCtx, merchantID, stored.CustomerID)
			if err != nil {
				return err
			}
			result = &entities.RedeemResult{
				RedemptionID: redemption.ID,
				EntryID:      stored.ID,
				Balance:      balance,
				Idempotent:   true,
			}
			return nil
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		reward, err := u.rewardRepo.GetByID(txCtx, input.RewardID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.ErrRewardNotFound
			}
			return err
		}
		if reward.MerchantID != merchantID || !reward.IsActive {
			return domainerrors.ErrRewardNotFound
		}

		balance, err := u.ledgerRepo.SumDeltas(txCtx, merchantID, input.CustomerID)
		if err != nil {
			return err
		}
		if balance < reward.PointsCost {
			return domainerrors.ErrInsufficientPoints
		}

		appended, err := u.ledger.Append(txCtx, &entities.LedgerEntry{
			MerchantID:     merchantID,
			CustomerID:     input.CustomerID,
			Type:           entities.EntryTypeRedeem,
			PointsDelta:    -reward.PointsCost,
			Source:         entities.EntrySourceTerminal,
			IdempotencyKey: input.IdempotencyKey,
		})
		if err != nil {
			return err
		}

		redemption := &entities.Redemption{
			MerchantID:    merchantID,
			CustomerID:    input.CustomerID,
			RewardID:      reward.ID,
			LedgerEntryID: appended.Entry.ID,
			PointsCost:    reward.PointsCost,
			Status:        entities.RedemptionStatusApproved,
		}
		if err := u.redemptionRepo.Create(txCtx, redemption); err != nil {
			return err
		}

		if err := u.auditRepo.Create(txCtx, &entities.AuditLog{
			MerchantID: merchantID,
			ActorID:    actorID,
			Action:     "redemption.create",
			TargetType: "redemption",
			TargetID:   redemption.ID,
		}); err != nil {
			return err
		}

		result = &entities.RedeemResult{
			RedemptionID: redemption.ID,
			EntryID:      appended.Entry.ID,
			Balance:      balance - reward.PointsCost,
			Idempotent:   false,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reverse undoes a redemption, e.g. when the reward could not be handed over.
// The points come back as a reversal entry; the original redeem entry is never
// touched. Reversing twice is rejected.
func (u *RedemptionUsecase) Reverse(ctx context.Context, merchantID uuid.UUID, actorID *uuid.UUID, redemptionID uuid.UUID, idempotencyKey string) (*entities.RedeemResult, error) {
	if idempotencyKey == "" {
		return nil, domainerrors.BadRequest("idempotencyKey is required")
	}

	var result *entities.RedeemResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		redemption, err := u.redemptionRepo.GetByID(txCtx, merchantID, redemptionID)
		if err != nil {
			return err
		}
		if _, err := u.customerRepo.LockForUpdate(txCtx, merchantID, redemption.CustomerID); err != nil {
			return err
		}
		if redemption.Status == entities.RedemptionStatusReversed {
			return domainerrors.ErrAlreadyExists
		}

		appended, err := u.ledger.Append(txCtx, &entities.LedgerEntry{
			MerchantID:     merchantID,
			CustomerID:     redemption.CustomerID,
			Type:           entities.EntryTypeReversal,
			PointsDelta:    redemption.PointsCost,
			Source:         entities.EntrySourceAdmin,
			IdempotencyKey: idempotencyKey,
		})
		if err != nil {
			return err
		}

		if !appended.Replayed {
			if err := u.redemptionRepo.UpdateStatus(txCtx, merchantID, redemption.ID, entities.RedemptionStatusReversed); err != nil {
				return err
			}
			if err := u.auditRepo.Create(txCtx, &entities.AuditLog{
				MerchantID: merchantID,
				ActorID:    actorID,
				Action:     "redemption.reverse",
				TargetType: "redemption",
				TargetID:   redemption.ID,
			}); err != nil {
				return err
			}
		}

		balance, err := u.ledgerRepo.SumDeltas(txCtx, merchantID, redemption.CustomerID)
		if err != nil {
			return err
		}
		result = &entities.RedeemResult{
			RedemptionID: redemption.ID,
			EntryID:      appended.Entry.ID,
			Balance:      balance,
			Idempotent:   appended.Replayed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateReward registers a redeemable item for the merchant.
func (u *RedemptionUsecase) CreateReward(ctx context.Context, merchantID uuid.UUID, actorID *uuid.UUID, input *entities.RewardCreateInput) (*entities.Reward, error) {
	if input.PointsCost <= 0 {
		return nil, domainerrors.BadRequest("pointsCost must be positive")
	}

	reward := &entities.Reward{
		MerchantID: merchantID,
		Name:       input.Name,
		PointsCost: input.PointsCost,
		IsActive:   true,
	}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.rewardRepo.Create(txCtx, reward); err != nil {
			return err
		}
		return u.auditRepo.Create(txCtx, &entities.AuditLog{
			MerchantID: merchantID,
			ActorID:    actorID,
			Action:     "reward.create",
			TargetType: "reward",
			TargetID:   reward.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// ListRewards returns the merchant's rewards.
func (u *RedemptionUsecase) ListRewards(ctx context.Context, merchantID uuid.UUID, activeOnly bool) ([]*entities.Reward, error) {
	return u.rewardRepo.ListByMerchant(ctx, merchantID, activeOnly)
}

// DeactivateReward retires a reward from the catalog. Existing redemptions
// keep pointing at it.
func (u *RedemptionUsecase) DeactivateReward(ctx context.Context, merchantID, rewardID uuid.UUID) error {
	return u.rewardRepo.Deactivate(ctx, merchantID, rewardID)
}
