package constants

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyIdentity = "identity"
	ContextKeyToken    = "token_claims"
	ContextKeyProject  = "project"
	ContextKeyRole     = "project_role"
	ContextKeyTask     = "task"
	ContextKeyRequest  = "request_id"
)

// Validation limits
const (
	MinPasswordLength = 6
	MinTitleLength    = 3
	MaxTitleLength    = 100
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxAIGeneratedTasks caps how many suggestions one generate call may return.
const MaxAIGeneratedTasks = 20
