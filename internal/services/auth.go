package services

import (
	"errors"
	"time"

	"task-tracker/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService issues and verifies the session token carried in the session
// cookie. The token subject is the worker's slug, so every request resolves
// the worker the same way the URL scheme does.
type AuthService interface {
	Login(db *gorm.DB, username, password string) (*models.Worker, error)
	IssueSession(worker *models.Worker) (string, error)
	ResolveSession(db *gorm.DB, token string) (*models.Worker, error)
}

type AuthServiceImpl struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthService(secret string, ttl time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{secret: []byte(secret), ttl: ttl}
}

func (s *AuthServiceImpl) Login(db *gorm.DB, username, password string) (*models.Worker, error) {
	var worker models.Worker
	if err := db.Where("username = ?", username).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err := bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return &worker, nil
}

func (s *AuthServiceImpl) IssueSession(worker *models.Worker) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   worker.Slug,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthServiceImpl) ResolveSession(db *gorm.DB, tokenStr string) (*models.Worker, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidCredentials
	}

	var worker models.Worker
	if err := db.Where("slug = ?", claims.Subject).First(&worker).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	return &worker, nil
}
