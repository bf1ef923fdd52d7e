package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"symposium-app/config"
	"symposium-app/database"
	"symposium-app/internal/app/authz"
	"symposium-app/internal/domain/consumers"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errNoToken = errors.New("no bearer token")

// authenticate parses the bearer token, loads the consumer, and builds the
// request principal. Returns errNoToken when no credential was supplied.
func authenticate(c *gin.Context) (AuthContext, error) {
	jwtKey := []byte(config.JWT_SECRET)
	if len(jwtKey) == 0 {
		return AuthContext{}, errors.New("JWT secret not configured")
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return AuthContext{}, errNoToken
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return AuthContext{}, errors.New("bearer token malformed")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return AuthContext{}, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthContext{}, errors.New("invalid token claims")
	}
	consumerIDFloat, ok := claims["consumer_id"].(float64)
	if !ok || consumerIDFloat == 0 {
		return AuthContext{}, errors.New("token missing consumer_id")
	}

	var consumer consumers.Consumer
	if err := database.DB.Where("id = ?", uint(consumerIDFloat)).First(&consumer).Error; err != nil {
		return AuthContext{}, errors.New("unknown consumer")
	}

	principal, err := authz.Records.PrincipalFor(c.Request.Context(), &consumer)
	if err != nil {
		return AuthContext{}, err
	}
	return AuthContext{Principal: principal, Consumer: &consumer}, nil
}

// AuthMiddleware requires a valid bearer token and rejects with 401
// otherwise.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, err := authenticate(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to make this request"})
			c.Abort()
			return
		}
		SetAuthContext(c, ac)
		c.Next()
	}
}

// SoftAuthMiddleware resolves identity when a credential is present and
// proceeds as anonymous otherwise. Invalid tokens are treated as absent:
// the visibility rules decide what anonymous callers may see.
func SoftAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, err := authenticate(c)
		if err == nil {
			SetAuthContext(c, ac)
		}
		c.Next()
	}
}
