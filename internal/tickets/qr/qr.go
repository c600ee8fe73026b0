package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/skip2/go-qrcode"
)

// BoardingPass is the payload encoded in a ticket's QR code.
type BoardingPass struct {
	TicketID      int64     `json:"ticket_id"`
	OrderID       int64     `json:"order_id"`
	UserID        string    `json:"user_id"`
	FlightID      int64     `json:"flight_id"`
	Row           int       `json:"row"`
	Seat          int       `json:"seat"`
	DepartureTime time.Time `json:"departure_time"`
}

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// Encrypt returns the URL-safe base64 AES-CFB ciphertext of pass.
func (q *QRGenerator) Encrypt(pass BoardingPass) (string, error) {
	data, err := json.Marshal(pass)
	if err != nil {
		return "", err
	}
	return encryptAES(data, q.secret)
}

// GenerateEncryptedQR renders the encrypted pass as a PNG QR code of size pixels.
func (q *QRGenerator) GenerateEncryptedQR(pass BoardingPass, size int) ([]byte, error) {
	encrypted, err := q.Encrypt(pass)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(encrypted, qrcode.Medium, size)
}

// Decrypt reverses Encrypt. A pass encrypted under another secret fails to decode.
func (q *QRGenerator) Decrypt(encrypted string) (BoardingPass, error) {
	var pass BoardingPass
	data, err := decryptAES(encrypted, q.secret)
	if err != nil {
		return pass, err
	}
	if err := json.Unmarshal(data, &pass); err != nil {
		return pass, errors.New("invalid boarding pass")
	}
	return pass, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv, data := ciphertext[:aes.BlockSize], ciphertext[aes.BlockSize:]
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, data)
	return data, nil
}
