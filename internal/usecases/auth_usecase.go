package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/domain/repositories"
	"github.com/ParvPasricha/loyalty-system/pkg/crypto"
	"github.com/ParvPasricha/loyalty-system/pkg/jwt"
)

// AuthUsecase handles staff authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login authenticates a staff member and returns a token pair scoped to
// their merchant. Unknown email and wrong password are indistinguishable to
// the caller.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.User, *jwt.TokenPair, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}

	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.MerchantID, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	// re-check the account: a deactivated user must not be able to keep
	// minting tokens
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, domainerrors.ErrUnauthorized
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.MerchantID, user.Email, string(user.Role))
}

// CreateStaff registers a staff account under the merchant. Only owners may
// call this; the role check happens in the HTTP layer.
func (u *AuthUsecase) CreateStaff(ctx context.Context, merchantID uuid.UUID, input *entities.StaffCreateInput) (*entities.User, error) {
	switch input.Role {
	case entities.UserRoleOwner, entities.UserRoleManager, entities.UserRoleStaff:
	default:
		return nil, domainerrors.BadRequest("unknown role")
	}

	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		MerchantID:   merchantID,
		Email:        input.Email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
