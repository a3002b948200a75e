package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"drone-pickup/internal/features/session/domain"

	"golang.org/x/crypto/bcrypt"
)

const (
	codeLength     = 6
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// challenge is an issued verification code. Only its hash is kept.
type challenge struct {
	phone    string
	hash     []byte
	attempts int
}

// normalizePhone strips formatting and keeps the digits.
func normalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.' || r == '+':
		default:
			return "", fmt.Errorf("%w: unexpected %q", domain.ErrInvalidPhone, r)
		}
	}
	digits := b.String()
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("%w: need %d to %d digits", domain.ErrInvalidPhone, minPhoneDigits, maxPhoneDigits)
	}
	return digits, nil
}

func validCodeFormat(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// issueChallenge draws a random numeric code and hashes it.
func issueChallenge(phone string) (string, *challenge, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash code: %w", err)
	}
	return code, &challenge{phone: phone, hash: hash}, nil
}

// verify checks a code against the challenge. In lenient mode any well-formed
// code is accepted. Failed attempts count against maxAttempts.
func (c *challenge) verify(code string, strict bool, maxAttempts int) error {
	if c.attempts >= maxAttempts {
		return domain.ErrTooManyAttempts
	}
	if !validCodeFormat(code) {
		c.attempts++
		return fmt.Errorf("%w: expected %d digits", domain.ErrInvalidCode, codeLength)
	}
	if strict && bcrypt.CompareHashAndPassword(c.hash, []byte(code)) != nil {
		c.attempts++
		return domain.ErrInvalidCode
	}
	return nil
}
