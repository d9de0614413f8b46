package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{Secret: "secreto-de-pruebas", Issuer: "facturador-test", ExpMinutes: 5}

func TestGenerateYParse(t *testing.T) {
	tok, err := Generate(testOpts, Identity{UserID: "u-1", CompanyID: "c-1", Role: "admin"})
	require.NoError(t, err)

	id, err := Parse(testOpts.Secret, tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u-1", CompanyID: "c-1", Role: "admin"}, *id)
}

func TestParse_SecretoDistinto(t *testing.T) {
	tok, err := Generate(testOpts, Identity{UserID: "u-1", CompanyID: "c-1", Role: "vendedor"})
	require.NoError(t, err)

	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	opts := testOpts
	opts.ExpMinutes = -1
	tok, err := Generate(opts, Identity{UserID: "u-1", CompanyID: "c-1"})
	require.NoError(t, err)

	_, err = Parse(opts.Secret, tok)
	assert.Error(t, err)
}

func TestSecretoVacio(t *testing.T) {
	_, err := Generate(Options{}, Identity{})
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = Parse("", "x.y.z")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
