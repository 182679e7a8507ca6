package services

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/RubeldiRubelda/merryweihnachten/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService gates the admin-only operations. Admin login checks a single
// shared secret; successful logins mint a signed token and register it as a
// live session. The session row is authoritative: logout deletes the row and
// the token is dead from then on, signature or not. Sessions never expire on
// their own.
type AuthService struct {
	db           *gorm.DB
	jwtSecret    []byte
	passwordHash []byte
}

func NewAuthService(db *gorm.DB, jwtSecret, adminPassword string) *AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		// Only possible for passwords over 72 bytes.
		panic(err)
	}
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret), passwordHash: hash}
}

// AdminLogin compares the password against the shared secret and, on match,
// mints a fresh admin token.
func (s *AuthService) AdminLogin(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	session := models.AdminSession{Token: token, CreatedAt: time.Now()}
	if err := s.db.Create(&session).Error; err != nil {
		return "", err
	}
	return token, nil
}

// AdminAuthorize reports whether the token belongs to a live admin session.
func (s *AuthService) AdminAuthorize(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrNotAuthorized
	}

	var session models.AdminSession
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		return ErrNotAuthorized
	}
	return nil
}

// AdminLogout revokes the session for the token. Revoking an unknown token is
// a no-op.
func (s *AuthService) AdminLogout(token string) error {
	return s.db.Where("token = ?", token).Delete(&models.AdminSession{}).Error
}

// EncodeParticipantToken turns a phone number into the participant token. The
// encoding is reversible and carries no secret; whether the holder is "logged
// in" is decided by record existence, not by the token.
func (s *AuthService) EncodeParticipantToken(phoneNumber string) string {
	return base64.StdEncoding.EncodeToString([]byte(phoneNumber))
}

// DecodeParticipantToken recovers the phone number from a participant token.
func (s *AuthService) DecodeParticipantToken(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrNotAuthorized
	}
	return string(raw), nil
}
