// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	"roster/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel

	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&accountM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}
		// Any other failure is a store failure, reported through the same
		// envelope as the write paths.
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by email")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toAccountDomain(&accountM), nil
}

// Create persists a new account entity to the database.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors. The unique constraint on
		// email backstops the pre-insert existence check against races.
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrMissingFields.WrapMessage("missing required account information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Carry the generated timestamps back onto the entity.
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// List retrieves every account without filtering or pagination.
// No ORDER BY is applied; callers must not rely on insertion order.
func (repo *accountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	var accountMs []model.AccountModel

	if err := repo.db.WithContext(ctx).Find(&accountMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for i := range accountMs {
		accounts = append(accounts, toAccountDomain(&accountMs[i]))
	}

	return accounts, nil
}

// ToggleActiveByEmails flips is_active for every matching row in a single
// UPDATE statement. Emails with no matching row are skipped; RowsAffected
// therefore counts exactly the accounts that were toggled.
func (repo *accountRepository) ToggleActiveByEmails(ctx context.Context, emails []string) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("email IN ?", emails).
		Update("is_active", gorm.Expr("NOT is_active"))
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to toggle account status")
	}

	return result.RowsAffected, nil
}

// DeleteByEmails physically deletes every matching row in a single DELETE
// statement and returns the number of rows removed.
func (repo *accountRepository) DeleteByEmails(ctx context.Context, emails []string) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("email IN ?", emails).
		Delete(&model.AccountModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete accounts")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		Email:        data.Email,
		Name:         data.Name,
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		Email:        data.Email,
		Name:         data.Name,
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
	}
}
