package util

import (
	"errors"
	"time"

	"school_exam_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextClaimsKey  = "user"
	ContextAccountKey = "account"
)

type Claims struct {
	UserID    uint           `json:"user_id"`
	Username  string         `json:"username"`
	Name      string         `json:"name"`
	Role      model.UserRole `json:"role"`
	SchoolID  *uint          `json:"school_id,omitempty"`
	ClassName string         `json:"class_name,omitempty"`
	jwt.RegisteredClaims
}

func GenerateJWT(user *model.User, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role,
		SchoolID:  user.SchoolID,
		ClassName: user.ClassName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// Matches reports whether the token still describes u: same user, role and school.
func (c *Claims) Matches(u *model.User) bool {
	if c.UserID != u.ID || c.Role != u.Role {
		return false
	}
	if c.SchoolID == nil || u.SchoolID == nil {
		return c.SchoolID == nil && u.SchoolID == nil
	}
	return *c.SchoolID == *u.SchoolID
}

func GetAccountFromContext(c *gin.Context) model.Account {
	acc, exists := c.Get(ContextAccountKey)
	if !exists {
		return nil
	}
	account, ok := acc.(model.Account)
	if !ok {
		return nil
	}
	return account
}
