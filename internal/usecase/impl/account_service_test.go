package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	deliverycontext "roster/internal/delivery/context"
	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	mockRepo "roster/internal/mocks/repository"
	mockSvc "roster/internal/mocks/service"
	"roster/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	txManager   *mockRepo.MockTransactionManager
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockSvc.MockPasswordHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAccountService(AccountServiceParams{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Logger:      logger,
	})

	return accountServiceFixtures{
		service:     service,
		txManager:   txManager,
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

// onExecute arranges the transaction mock to run the callback against a
// factory configured by setup, propagating the callback's own error.
func (f accountServiceFixtures) onExecute(t *testing.T, ctx context.Context, setup func(factory *mockRepo.MockRepositoryFactory)) {
	f.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(t)
			setup(factory)

			return fn(factory)
		})
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		txRepo := mockRepo.NewMockAccountRepository(t)
		factory.EXPECT().AccountRepo().Return(txRepo)

		txRepo.EXPECT().
			FindByEmail(ctx, input.Email).
			Return(nil, repository.ErrAccountNotFound)

		txRepo.EXPECT().
			Create(ctx, mock.AnythingOfType("*entity.Account")).
			Run(func(ctx context.Context, account *entity.Account) {
				assert.Equal(t, "hashed_password", account.PasswordHash)
				assert.True(t, account.IsActive)
			}).
			Return(nil)
	})

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Name, output.Name)
	assert.Equal(t, input.Email, output.Email)
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	existing := &entity.Account{
		Name:     "Earlier User",
		Email:    input.Email,
		IsActive: true,
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		txRepo := mockRepo.NewMockAccountRepository(t)
		factory.EXPECT().AccountRepo().Return(txRepo)

		txRepo.EXPECT().
			FindByEmail(ctx, input.Email).
			Return(existing, nil)
	})

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input *usecase.RegisterInput
	}{
		{"nil input", nil},
		{"blank name", &usecase.RegisterInput{Name: "  ", Email: "a@b.c", Password: "pw"}},
		{"blank email", &usecase.RegisterInput{Name: "A", Email: "", Password: "pw"}},
		{"blank password", &usecase.RegisterInput{Name: "A", Email: "a@b.c", Password: ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := fx.service.Register(ctx, tc.input)

			assert.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, errors.Is(err, domainerrors.ErrMissingFields))
		})
	}
}

func TestAccountService_Register_FindError(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		txRepo := mockRepo.NewMockAccountRepository(t)
		factory.EXPECT().AccountRepo().Return(txRepo)

		txRepo.EXPECT().
			FindByEmail(ctx, input.Email).
			Return(nil, errors.New("db error"))
	})

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "failed to find account by email")
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	}

	account := &entity.Account{
		Name:         "Test User",
		Email:        input.Email,
		PasswordHash: "hashed_password",
		IsActive:     true,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(account, nil)
	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(true)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, account.Name, output.Name)
	assert.Equal(t, account.Email, output.Email)
	assert.True(t, output.IsActive)
}

func TestAccountService_Login_UniformFailure(t *testing.T) {
	// An unknown email and a wrong password must surface the exact same error,
	// so the login endpoint cannot be used to probe which emails exist.
	t.Run("unknown email", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		fx.accountRepo.EXPECT().
			FindByEmail(ctx, "ghost@example.com").
			Return(nil, repository.ErrAccountNotFound)

		output, err := fx.service.Login(ctx, &usecase.LoginInput{
			Email:    "ghost@example.com",
			Password: "whatever",
		})

		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		account := &entity.Account{
			Email:        "test@example.com",
			PasswordHash: "hashed_password",
			IsActive:     true,
		}

		fx.accountRepo.EXPECT().FindByEmail(ctx, account.Email).Return(account, nil)
		fx.hasher.EXPECT().Check("wrong", account.PasswordHash).Return(false)

		output, err := fx.service.Login(ctx, &usecase.LoginInput{
			Email:    account.Email,
			Password: "wrong",
		})

		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})
}

func TestAccountService_Login_BlockedAccount(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		Name:         "Blocked User",
		Email:        "blocked@example.com",
		PasswordHash: "hashed_password",
		IsActive:     false,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, account.Email).Return(account, nil)
	fx.hasher.EXPECT().Check("Password123!", account.PasswordHash).Return(true)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "Password123!",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountBlocked))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Login_StoreFailure(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	storeErr := domainerrors.NewDatabaseExecuteError(
		errors.New("connection reset by peer"), "failed to find account by email")

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(nil, storeErr)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})

	assert.Nil(t, output)
	// A store outage is not a credentials problem and must not masquerade as one.
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}

func TestAccountService_UsesRequestScopedLogger(t *testing.T) {
	fx := createTestAccountService(t)

	var buf bytes.Buffer
	reqLogger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := deliverycontext.WithLogger(context.Background(), reqLogger)

	account := &entity.Account{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		IsActive:     true,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, account.Email).Return(account, nil)
	fx.hasher.EXPECT().Check("Password123!", account.PasswordHash).Return(true)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "Password123!",
	})

	require.NoError(t, err)
	// The logger carried in the request context receives the service's log
	// records, not only the fallback injected at construction.
	assert.Contains(t, buf.String(), "Account logged in successfully")
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@b.c"})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrMissingFields))
}

func TestAccountService_ListAccounts_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.accountRepo.EXPECT().List(ctx).Return([]*entity.Account{
		{Name: "Alice", Email: "alice@example.com", PasswordHash: "h1", IsActive: true},
		{Name: "Bob", Email: "bob@example.com", PasswordHash: "h2", IsActive: false},
	}, nil)

	summaries, err := fx.service.ListAccounts(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, usecase.AccountSummary{Name: "Alice", Email: "alice@example.com", IsActive: true}, summaries[0])
	assert.Equal(t, usecase.AccountSummary{Name: "Bob", Email: "bob@example.com", IsActive: false}, summaries[1])
}

func TestAccountService_ListAccounts_Empty(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.accountRepo.EXPECT().List(ctx).Return([]*entity.Account{}, nil)

	summaries, err := fx.service.ListAccounts(ctx)

	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAccountService_ListAccounts_RepoError(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.accountRepo.EXPECT().List(ctx).Return(nil, errors.New("db error"))

	summaries, err := fx.service.ListAccounts(ctx)

	assert.Error(t, err)
	assert.Nil(t, summaries)
	assert.Contains(t, err.Error(), "failed to list accounts")
}
