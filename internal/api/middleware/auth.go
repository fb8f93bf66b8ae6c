package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	authorizationHeader = "Authorization"
	merchantCtx         = "merchantID" // Key to store the authenticated merchant ID in context
)

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Message: "Your query could not be completed",
		Errors:  []string{message},
	})
}

// JWTAuthMiddleware creates a Gin middleware for JWT authentication.
// The token subject must be the numeric ID of a merchant.
func JWTAuthMiddleware(jwtSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			logger.Debug("Auth middleware: Authorization header missing")
			abortWith(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			logger.Debug("Auth middleware: Invalid Authorization header format")
			abortWith(c, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		token, err := jwt.ParseWithClaims(headerParts[1], &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Info("Auth middleware: Error parsing token", zap.Error(err))
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWith(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || !token.Valid {
			logger.Info("Auth middleware: Invalid token claims or token is not valid")
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		merchantID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			logger.Info("Auth middleware: Token subject is not a merchant ID", zap.String("subject", claims.Subject))
			abortWith(c, http.StatusUnauthorized, "Invalid merchant identifier in token")
			return
		}

		c.Set(merchantCtx, merchantID)
		c.Next()
	}
}

// RequireMerchant rejects requests whose authenticated merchant differs from
// the merchant named by the given path parameter. It must run after JWTAuthMiddleware.
func RequireMerchant(param string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated, err := GetMerchantIDFromContext(c)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if c.Param(param) != strconv.FormatInt(authenticated, 10) {
			logger.Info("Auth middleware: Merchant scope mismatch",
				zap.Int64("authenticated", authenticated), zap.String("requested", c.Param(param)))
			abortWith(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

// GetMerchantIDFromContext returns the merchant ID stored by JWTAuthMiddleware.
func GetMerchantIDFromContext(c *gin.Context) (int64, error) {
	idAny, exists := c.Get(merchantCtx)
	if !exists {
		return 0, errors.New("merchant ID not found in context")
	}

	id, ok := idAny.(int64)
	if !ok {
		return 0, errors.New("merchant ID in context is of invalid type")
	}
	return id, nil
}
