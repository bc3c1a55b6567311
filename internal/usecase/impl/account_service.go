// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	deliverycontext "roster/internal/delivery/context"
	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	"roster/internal/domain/service"
	"roster/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if input == nil || isBlank(input.Name) || isBlank(input.Email) || isBlank(input.Password) {
		return nil, domainerrors.ErrMissingFields.WrapMessage("registration failed")
	}

	srv.log(ctx).Info("Starting account registration", "email", input.Email)

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", "error", err)

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registered *entity.Account

	// The existence check and the insert run in one transaction; the unique
	// constraint on email still backstops the race between them.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, err := accountRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			// If no error, an account with this email was found.
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("account registration failed")
		}
		// We expect a 'not found' error. If it's a different error, something went wrong.
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to find account by email")
		}

		newAccount := &entity.Account{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hashedPassword,
			IsActive:     true,
		}

		if err := accountRepo.Create(ctx, newAccount); err != nil {
			return errors.WithStack(err)
		}
		registered = newAccount

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute account registration transaction", "error", err, "email", input.Email)

		return nil, errors.Wrap(err, "failed to execute account registration transaction")
	}
	srv.log(ctx).Debug("Account registered successfully", "email", registered.Email)

	return &usecase.RegisterOutput{
		Name:  registered.Name,
		Email: registered.Email,
	}, nil
}

// Login verifies an account's credentials and returns its profile.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input == nil || isBlank(input.Email) || isBlank(input.Password) {
		return nil, domainerrors.ErrMissingFields.WrapMessage("login failed")
	}

	srv.log(ctx).Debug("Starting account login", "email", input.Email)

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		// An unknown email and a wrong password must fail with the same error,
		// so account existence cannot be probed through the login endpoint.
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}
		// A store failure is not a credentials problem; let it surface as one.
		return nil, errors.Wrap(err, "failed to find account by email")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	// Only after the credentials check out do we reveal the blocked state.
	if !account.IsActive {
		srv.log(ctx).Warn("Login attempt on blocked account", "email", input.Email)

		return nil, errors.Wrap(domainerrors.ErrAccountBlocked, "login failed")
	}

	srv.log(ctx).Debug("Account logged in successfully", "email", account.Email)

	return &usecase.LoginOutput{
		Name:     account.Name,
		Email:    account.Email,
		IsActive: account.IsActive,
	}, nil
}

// ListAccounts returns the public projection of every account.
func (srv *accountService) ListAccounts(ctx context.Context) ([]usecase.AccountSummary, error) {
	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list accounts", "error", err)

		return nil, errors.Wrap(err, "failed to list accounts")
	}

	summaries := make([]usecase.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, usecase.AccountSummary{
			Name:     account.Name,
			Email:    account.Email,
			IsActive: account.IsActive,
		})
	}

	return summaries, nil
}

// ToggleStatus flips IsActive for every existing target account in one transaction.
func (srv *accountService) ToggleStatus(ctx context.Context, input *usecase.BulkInput) (*usecase.BulkOutput, error) {
	return srv.applyBulk(ctx, input, "toggle status",
		func(ctx context.Context, repo repository.AccountRepository, targets []string) (int64, error) {
			return repo.ToggleActiveByEmails(ctx, targets)
		})
}

// DeleteAccounts physically deletes every existing target account in one transaction.
func (srv *accountService) DeleteAccounts(ctx context.Context, input *usecase.BulkInput) (*usecase.BulkOutput, error) {
	return srv.applyBulk(ctx, input, "delete accounts",
		func(ctx context.Context, repo repository.AccountRepository, targets []string) (int64, error) {
			return repo.DeleteByEmails(ctx, targets)
		})
}

// applyBulk holds the shared rules of both bulk operations: input validation,
// the empty-selection no-op, the active-actor precondition, and the
// self-reference tagging. The batch mutation itself is supplied by the caller.
func (srv *accountService) applyBulk(
	ctx context.Context,
	input *usecase.BulkInput,
	operation string,
	apply func(ctx context.Context, repo repository.AccountRepository, targets []string) (int64, error),
) (*usecase.BulkOutput, error) {
	// A nil target slice means the field was absent from the request; an empty
	// one means the caller selected nothing. Only the former is a validation error.
	if input == nil || isBlank(input.ActorEmail) || input.TargetEmails == nil {
		return nil, domainerrors.ErrMissingFields.WrapMessage(operation + " failed")
	}

	if len(input.TargetEmails) == 0 {
		srv.log(ctx).Debug("Bulk operation with empty selection", "operation", operation, "actor", input.ActorEmail)

		return &usecase.BulkOutput{Outcome: usecase.BulkOutcomeNoneSelected}, nil
	}

	var matched int64

	// The actor check and the batch mutation share one transaction, so a
	// concurrent request can neither race the actor's own deactivation nor
	// observe a partially applied batch.
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		actor, err := accountRepo.FindByEmail(ctx, input.ActorEmail)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrActorNotAuthorized.WrapMessage(operation + " failed")
			}

			return errors.Wrap(err, "failed to find actor account")
		}
		if !actor.IsActive {
			return domainerrors.ErrActorNotAuthorized.WrapMessage(operation + " failed")
		}

		matched, err = apply(ctx, accountRepo, input.TargetEmails)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute bulk operation transaction",
			"operation", operation, "actor", input.ActorEmail, "error", err)

		return nil, errors.Wrapf(err, "failed to execute %s transaction", operation)
	}

	outcome := usecase.BulkOutcomeApplied
	if slices.Contains(input.TargetEmails, input.ActorEmail) {
		// The actor just mutated its own account: flag it so the delivery
		// layer can answer with the distinct self-referential status.
		outcome = usecase.BulkOutcomeSelfApplied
	}

	srv.log(ctx).Info("Bulk operation applied",
		"operation", operation, "actor", input.ActorEmail,
		"targets", len(input.TargetEmails), "matched", matched, "outcome", string(outcome))

	return &usecase.BulkOutput{Outcome: outcome, Matched: matched}, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
