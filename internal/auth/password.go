package auth

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"

	"allmanager/internal/config"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison at the same cost.
	dummyHash []byte
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = BcryptCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("allmanager-dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	return &PasswordHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash returns the bcrypt hash of the trimmed password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password, exactly as submitted, matches hash.
func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyCompare burns one comparison against a fixed hash.
func (h *PasswordHasher) DummyCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}

var errWeakPassword = errors.New("Password does not meet policy")

// CheckPasswordPolicy requires 12..128 characters after trimming and at least
// one ASCII lowercase letter, ASCII uppercase letter and digit. Any other
// character, inner spaces and accented letters included, counts as a symbol.
func CheckPasswordPolicy(password string) error {
	p := strings.TrimSpace(password)
	n := len([]rune(p))
	if n < config.MinPasswordLength || n > config.MaxPasswordLength {
		return errWeakPassword
	}

	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return errWeakPassword
	}
	return nil
}

// StrongPassword is the ozzo rule form of CheckPasswordPolicy.
var StrongPassword = validation.By(func(value interface{}) error {
	switch v := value.(type) {
	case string:
		return CheckPasswordPolicy(v)
	case *string:
		if v == nil {
			return nil
		}
		return CheckPasswordPolicy(*v)
	default:
		return errWeakPassword
	}
})
