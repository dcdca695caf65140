package authentication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestTokens_RoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := GetTokens()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, StoreTokens(&StoredCredentials{AccessToken: "abc", APIURL: "http://api", SavedAt: 42}))

	creds, err := GetTokens()
	require.NoError(t, err)
	assert.Equal(t, "abc", creds.AccessToken)
	assert.Equal(t, "http://api", creds.APIURL)

	require.NoError(t, DeleteTokens())
	require.NoError(t, DeleteTokens())

	_, err = GetTokens()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
