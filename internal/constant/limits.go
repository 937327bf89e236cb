package constant

const (
	// DefaultCreditGrant is the balance a new account starts with.
	DefaultCreditGrant = 50

	// ChatTurnCost is debited from the user for every completed chat turn.
	ChatTurnCost = 2

	// FreeTierPdfLimit caps uploads for users without an active subscription.
	FreeTierPdfLimit = 5

	// MaxPdfSizeBytes is the upload size cap (10 MiB).
	MaxPdfSizeBytes = 10 * 1024 * 1024

	// SessionLifetime is how long a session token stays valid.
	SessionLifetimeDays = 7

	// MinPasswordLength for registration and password reset.
	MinPasswordLength = 6
)
