package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "ascii", password: "pw-1"},
		{name: "unicode", password: "пароль-суп"},
		{name: "special chars", password: "p@ss w0rd!#%&"},
		{name: "empty", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
			assert.Error(t, CompareHash(hash, tt.password+"x"))
		})
	}
}

func TestGetHash_SaltedWithMinimumCost(t *testing.T) {
	first, err := GetHash("same")
	require.NoError(t, err)
	second, err := GetHash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	cost, err := bcrypt.Cost([]byte(first))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, 10)
}

func TestCompareHash_InvalidHash(t *testing.T) {
	err := CompareHash("not-a-bcrypt-hash", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password.CompareHash")
}

func TestGetHash_TooLong(t *testing.T) {
	// bcrypt принимает не больше 72 байт.
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := GetHash(string(long))
	assert.Error(t, err)
}
