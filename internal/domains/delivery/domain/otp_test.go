package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_SixDigitsInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.NoError(t, ValidateOTPFormat(code))
		assert.NotEqual(t, byte('0'), code[0])
	}
}

func TestGenerateOTPFrom_LowerBound(t *testing.T) {
	// All-zero entropy yields the smallest value of the range.
	code, err := GenerateOTPFrom(bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)
	assert.Equal(t, "100000", code)
}

func TestValidateOTPFormat(t *testing.T) {
	for _, ok := range []string{"000000", "123456", "999999"} {
		assert.NoError(t, ValidateOTPFormat(ok), ok)
	}
	for _, bad := range []string{"", "12345", "1234567", "12a456", " 12345", "１２３４５６"} {
		assert.ErrorIs(t, ValidateOTPFormat(bad), ErrInvalidOTPFormat, bad)
	}
}

func TestMatchOTP(t *testing.T) {
	assert.True(t, MatchOTP("482913", "482913"))
	assert.False(t, MatchOTP("482913", "000000"))
	assert.False(t, MatchOTP("482913", "48291"))
}
