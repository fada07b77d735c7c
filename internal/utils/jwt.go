package utils

import (
	"errors"
	"strconv"
	"time"

	"aichat-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	AccountID int64 `json:"account_id"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs an HS256 token identifying the account.
func IssueSessionToken(accountID int64, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates the JWT and returns the session it encodes.
func ParseSessionToken(tokenString, secret string) (*model.Session, error) {
	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.AccountID <= 0 {
		return nil, errors.New("invalid account ID in token")
	}
	session := &model.Session{AccountID: claims.AccountID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
