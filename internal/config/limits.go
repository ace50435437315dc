package config

import "time"

const (
	// MaxProjectNameLength is the maximum length for project and lead names.
	MaxProjectNameLength = 160

	// MaxUserNameLength is the maximum length for a user's display name.
	MaxUserNameLength = 120

	// MaxEmailLength is the maximum length for email addresses.
	MaxEmailLength = 190

	// MaxDescriptionLength bounds free-text descriptions and lead notes.
	MaxDescriptionLength = 4000

	// MaxPhoneLength is the maximum length for a lead's phone number.
	MaxPhoneLength = 40

	// MaxTitleLength bounds task, note and requirement titles.
	MaxTitleLength = 200

	// MaxNoteContentLength bounds the body of a note.
	MaxNoteContentLength = 20000

	// Password policy bounds (after trimming).
	MinPasswordLength = 12
	MaxPasswordLength = 128

	// MaxJSONBodyBytes caps request bodies on JSON endpoints.
	MaxJSONBodyBytes = 64 << 10

	// MinJWTSecretLength is enforced outside dev (HS256 key size).
	MinJWTSecretLength = 32
)

const (
	// SessionTTL is the default lifetime of session tokens and cookies.
	SessionTTL = 8 * time.Hour

	// LoginWindow is how long failed logins for one (ip, email) pair accumulate.
	LoginWindow = 10 * time.Minute

	// LoginBlockDuration is how long a pair stays blocked after too many failures.
	LoginBlockDuration = 15 * time.Minute

	// MaxLoginAttempts is the number of failures within LoginWindow that triggers a block.
	MaxLoginAttempts = 5
)
