package api

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultSeatTokenTTL bounds how long a seat token stays valid.
const DefaultSeatTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidTokenFormat = errors.New("invalid token format")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrTokenExpired       = errors.New("token expired")
)

// seatClaims bind a token to one seat of one game.
type seatClaims struct {
	Game string `json:"gid"`
	Seat int    `json:"seat"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

// SeatSigner issues and verifies HS256 seat tokens.
type SeatSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSeatSigner uses secret, or a random in-memory secret when it is empty
// (tokens then die with the process).
func NewSeatSigner(secret string, ttl time.Duration) (*SeatSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := crand.Read(key); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	if ttl <= 0 {
		ttl = DefaultSeatTokenTTL
	}
	return &SeatSigner{secret: key, ttl: ttl, now: time.Now}, nil
}

func b64url(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func b64urlDecode(s string) ([]byte, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}

func (s *SeatSigner) sign(data string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(data))
	return b64url(mac.Sum(nil))
}

// Issue returns the token of seat (0 or 1) in gameID.
func (s *SeatSigner) Issue(gameID string, seat int) (string, error) {
	hdrJSON, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	now := s.now().Unix()
	clJSON, err := json.Marshal(seatClaims{Game: gameID, Seat: seat, Iat: now, Exp: now + int64(s.ttl.Seconds())})
	if err != nil {
		return "", err
	}
	unsigned := fmt.Sprintf("%s.%s", b64url(hdrJSON), b64url(clJSON))
	return unsigned + "." + s.sign(unsigned), nil
}

// Verify checks the signature and expiry of token.
func (s *SeatSigner) Verify(token string) (*seatClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidTokenFormat
	}
	expected := s.sign(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, ErrInvalidSignature
	}
	payload, err := b64urlDecode(parts[1])
	if err != nil {
		return nil, err
	}
	var claims seatClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if s.now().Unix() > claims.Exp {
		return nil, ErrTokenExpired
	}
	if claims.Seat != 0 && claims.Seat != 1 {
		return nil, ErrInvalidTokenFormat
	}
	return &claims, nil
}
