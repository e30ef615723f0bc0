package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/domain/repositories"
	"github.com/ParvPasricha/loyalty-system/pkg/crypto"
	"github.com/ParvPasricha/loyalty-system/pkg/redis"
)

// publicValueBytes is the entropy of a credential's public value. 16 bytes
// gives 128 bits, enough that values cannot be guessed or enumerated.
const publicValueBytes = 16

// issueRetries bounds retries when a freshly generated public value collides
// with an existing one.
const issueRetries = 3

// ClaimStore is the slice of the Redis claim store the token usecase needs.
type ClaimStore interface {
	Create(ctx context.Context, code string, data *redis.ClaimData, expiration time.Duration) error
	Claim(ctx context.Context, code string) (*redis.ClaimData, error)
}

// TokenUsecase handles presentable-credential business logic
type TokenUsecase struct {
	tokenRepo    repositories.TokenRepository
	customerRepo repositories.CustomerRepository
	ledgerRepo   repositories.LedgerRepository
	auditRepo    repositories.AuditLogRepository
	claims       ClaimStore
	claimTTL     time.Duration
	uow          repositories.UnitOfWork
}

// NewTokenUsecase creates a new token usecase
func NewTokenUsecase(
	tokenRepo repositories.TokenRepository,
	customerRepo repositories.CustomerRepository,
	ledgerRepo repositories.LedgerRepository,
	auditRepo repositories.AuditLogRepository,
	claims ClaimStore,
	claimTTL time.Duration,
	uow repositories.UnitOfWork,
) *TokenUsecase {
	return &TokenUsecase{
		tokenRepo:    tokenRepo,
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
		auditRepo:    auditRepo,
		claims:       claims,
		claimTTL:     claimTTL,
		uow:          uow,
	}
}

func validTokenType(t entities.TokenType) bool {
	switch t {
	case entities.TokenTypeQR, entities.TokenTypeBarcode, entities.TokenTypeNFC, entities.TokenTypeWallet:
		return true
	}
	return false
}

// IssueToken mints a credential. With no customer given a new anonymous
// customer is created first, so handing out a card at the counter is a single
// call. The public value is random; a collision with an existing value is
// retried with a fresh one.
func (u *TokenUsecase) IssueToken(ctx context.Context, merchantID uuid.UUID, input *entities.TokenIssueInput) (*entities.Token, error) {
	if !validTokenType(input.Type) {
		return nil, domainerrors.BadRequest("unknown token type")
	}

	var token *entities.Token
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		customerID, err := u.ensureCustomer(txCtx, merchantID, input.CustomerID)
		if err != nil {
			return err
		}

		for attempt := 0; attempt < issueRetries; attempt++ {
			publicValue, err := crypto.GenerateRandomToken(publicValueBytes)
			if err != nil {
				return err
			}
			candidate := &entities.Token{
				MerchantID:  merchantID,
				CustomerID:  customerID,
				Type:        input.Type,
				PublicValue: publicValue,
				Status:      entities.TokenStatusActive,
			}
			err = u.tokenRepo.Create(txCtx, candidate)
			if err == nil {
				token = candidate
				return nil
			}
			if !errors.Is(err, domainerrors.ErrAlreadyExists) {
				return err
			}
		}
		return domainerrors.ErrAlreadyExists
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (u *TokenUsecase) ensureCustomer(ctx context.Context, merchantID uuid.UUID, customerID *uuid.UUID) (uuid.UUID, error) {
	if customerID != nil {
		customer, err := u.customerRepo.GetByID(ctx, merchantID, *customerID)
		if err != nil {
			return uuid.Nil, err
		}
		return customer.ID, nil
	}

	customer := &entities.Customer{
		MerchantID: merchantID,
		Status:     entities.CustomerStatusActive,
	}
	if err := u.customerRepo.Create(ctx, customer); err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// ResolveToken maps a presented public value to the customer behind it and
// their current balance. Revoked tokens resolve to an error, not to the
// customer.
func (u *TokenUsecase) ResolveToken(ctx context.Context, merchantID uuid.UUID, publicValue string) (*entities.TokenResolveResult, error) {
	token, err := u.tokenRepo.GetByPublicValue(ctx, merchantID, publicValue)
	if err != nil {
		return nil, err
	}
	if token.Status == entities.TokenStatusRevoked {
		return nil, domainerrors.ErrTokenRevoked
	}

	customer, err := u.customerRepo.GetByID(ctx, merchantID, token.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Status == entities.CustomerStatusBlocked {
		return nil, domainerrors.ErrCustomerBlocked
	}

	balance, err := u.ledgerRepo.SumDeltas(ctx, merchantID, token.CustomerID)
	if err != nil {
		return nil, err
	}

	return &entities.TokenResolveResult{
		TokenID:    token.ID,
		CustomerID: token.CustomerID,
		Type:       token.Type,
		Balance:    balance,
	}, nil
}

// RevokeToken permanently deactivates a credential. The customer and their
// balance are untouched; other tokens of the same customer keep working.
func (u *TokenUsecase) RevokeToken(ctx context.Context, merchantID uuid.UUID, actorID *uuid.UUID, tokenID uuid.UUID) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.tokenRepo.Revoke(txCtx, merchantID, tokenID); err != nil {
			return err
		}
		return u.auditRepo.Create(txCtx, &entities.AuditLog{
			MerchantID: merchantID,
			ActorID:    actorID,
			Action:     "token.revoke",
			TargetType: "token",
			TargetID:   tokenID,
		})
	})
}

// ListTokens returns every credential issued to the customer.
func (u *TokenUsecase) ListTokens(ctx context.Context, merchantID, customerID uuid.UUID) ([]*entities.Token, error) {
	return u.tokenRepo.ListByCustomer(ctx, merchantID, customerID)
}

// CreateWalletClaim prepares linking a wallet pass to an existing customer.
// It returns a single-use code that expires after the configured TTL; the
// customer's device exchanges it via ClaimWalletPass.
func (u *TokenUsecase) CreateWalletClaim(ctx context.Context, merchantID, customerID uuid.UUID) (string, error) {
	if _, err := u.customerRepo.GetByID(ctx, merchantID, customerID); err != nil {
		return "", err
	}

	code, err := crypto.GenerateRandomToken(publicValueBytes)
	if err != nil {
		return "", err
	}
	err = u.claims.Create(ctx, code, &redis.ClaimData{
		MerchantID: merchantID,
		CustomerID: customerID,
	}, u.claimTTL)
	if err != nil {
		return "", err
	}
	return code, nil
}

// ClaimWalletPass consumes a claim code and issues a wallet token for the
// customer it points at. An expired, unknown, or already consumed code is
// rejected.
func (u *TokenUsecase) ClaimWalletPass(ctx context.Context, merchantID uuid.UUID, code string) (*entities.Token, error) {
	data, err := u.claims.Claim(ctx, code)
	if err != nil {
		if errors.Is(err, redis.ErrClaimNotFound) {
			return nil, domainerrors.NotFound("claim code is invalid or expired")
		}
		return nil, err
	}
	if data.MerchantID != merchantID {
		return nil, domainerrors.NotFound("claim code is invalid or expired")
	}

	return u.IssueToken(ctx, merchantID, &entities.TokenIssueInput{
		Type:       entities.TokenTypeWallet,
		CustomerID: &data.CustomerID,
	})
}
