// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// BulkInput defines the data required for a bulk toggle or bulk delete.
// ActorEmail identifies the account claiming to perform the operation;
// TargetEmails is the set of accounts it applies to. A nil TargetEmails means
// the field was absent from the request, which is different from an empty set.
type BulkInput struct {
	ActorEmail   string
	TargetEmails []string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's public fields.
// The password hash is deliberately absent.
type RegisterOutput struct {
	Name  string
	Email string
}

// LoginOutput returns the authenticated account's profile.
type LoginOutput struct {
	Name     string
	Email    string
	IsActive bool
}

// AccountSummary is the public projection of one account used by listings.
type AccountSummary struct {
	Name     string
	Email    string
	IsActive bool
}

// BulkOutcome tags how a bulk operation concluded.
type BulkOutcome string

const (
	// BulkOutcomeNoneSelected means the target set was empty: a successful no-op.
	BulkOutcomeNoneSelected BulkOutcome = "none_selected"

	// BulkOutcomeApplied means the batch was applied and the actor was not a target.
	BulkOutcomeApplied BulkOutcome = "applied"

	// BulkOutcomeSelfApplied means the batch was applied and the actor's own
	// account was among the targets (self-lockout on toggle, self-deletion on delete).
	BulkOutcomeSelfApplied BulkOutcome = "self_applied"
)

// BulkOutput summarizes a bulk toggle or delete.
// Matched counts only the rows that actually existed; silently skipped
// target emails do not contribute.
type BulkOutput struct {
	Outcome BulkOutcome
	Matched int64
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	ListAccounts(ctx context.Context) ([]AccountSummary, error)
	ToggleStatus(ctx context.Context, input *BulkInput) (*BulkOutput, error)
	DeleteAccounts(ctx context.Context, input *BulkInput) (*BulkOutput, error)
}
