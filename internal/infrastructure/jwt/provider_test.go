package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gym-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestSignVerify_RoundTripsClaims(t *testing.T) {
	key := newKey(t)
	p := NewProviderFromKeys(key, &key.PublicKey, time.Hour)

	tok, err := p.Sign("u1", "trainer")
	require.NoError(t, err)
	claims, err := p.Verify(tok)

	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "trainer", claims.Role)
}

func TestVerify_Expired(t *testing.T) {
	key := newKey(t)
	p := NewProviderFromKeys(key, &key.PublicKey, -time.Minute)

	tok, err := p.Sign("u1", "client")
	require.NoError(t, err)
	_, err = p.Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_ForeignKey(t *testing.T) {
	signer := newKey(t)
	other := newKey(t)
	tok, err := NewProviderFromKeys(signer, &signer.PublicKey, time.Hour).Sign("u1", "client")
	require.NoError(t, err)

	_, err = NewProviderFromKeys(nil, &other.PublicKey, time.Hour).Verify(tok)
	assert.Error(t, err)
}

func TestVerify_MissingRole(t *testing.T) {
	key := newKey(t)
	p := NewProviderFromKeys(key, &key.PublicKey, time.Hour)
	tok, err := p.Sign("u1", "")
	require.NoError(t, err)

	_, err = p.Verify(tok)
	assert.ErrorContains(t, err, "missing user or role")
}

func TestNewProvider_VerifyOnly(t *testing.T) {
	key := newKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "public_key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

	p, err := NewProvider(&config.Config{JWTPublicKeyPath: path, JWTExpiry: time.Hour})
	require.NoError(t, err)

	_, err = p.Sign("u1", "admin")
	assert.ErrorContains(t, err, "no signing key")
}
