package qr_test

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"ms-airport/internal/tickets/qr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pass() qr.BoardingPass {
	return qr.BoardingPass{
		TicketID: 11, OrderID: 4, UserID: "user-1", FlightID: 7, Row: 3, Seat: 2,
		DepartureTime: time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC),
	}
}

func TestEncryptDecrypt(t *testing.T) {
	g := qr.NewQRGenerator("secret")

	encrypted, err := g.Encrypt(pass())
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "user-1")

	got, err := g.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, pass(), got)
}

func TestDecrypt_WrongSecret(t *testing.T) {
	encrypted, err := qr.NewQRGenerator("secret").Encrypt(pass())
	require.NoError(t, err)

	_, err = qr.NewQRGenerator("other").Decrypt(encrypted)
	assert.Error(t, err)

	_, err = qr.NewQRGenerator("secret").Decrypt("short")
	assert.Error(t, err)
}

func TestGenerateEncryptedQR_IsPNG(t *testing.T) {
	img, err := qr.NewQRGenerator("secret").GenerateEncryptedQR(pass(), 256)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 256, decoded.Bounds().Dx())
}
