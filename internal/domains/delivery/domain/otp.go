package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
	"math/big"
	"strconv"
)

const (
	otpMin    = 100000
	otpMax    = 999999
	otpLength = 6
)

// ErrInvalidOTPFormat rejects submissions that are not exactly six ASCII digits.
var ErrInvalidOTPFormat = errors.New("otp code must be exactly 6 digits")

// OTPGenerator produces delivery confirmation codes.
type OTPGenerator func() (string, error)

// GenerateOTP draws uniformly from [100000, 999999] using crypto/rand.
func GenerateOTP() (string, error) {
	return GenerateOTPFrom(rand.Reader)
}

// GenerateOTPFrom draws from the given entropy source.
func GenerateOTPFrom(r io.Reader) (string, error) {
	n, err := rand.Int(r, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// ValidateOTPFormat checks the shape of a code without comparing it.
func ValidateOTPFormat(code string) error {
	if len(code) != otpLength {
		return ErrInvalidOTPFormat
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrInvalidOTPFormat
		}
	}
	return nil
}

// MatchOTP compares codes in constant time.
func MatchOTP(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
