package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// statsAuthMiddleware admits callers presenting an unexpired HS256 bearer
// token signed with the operator secret.
func statsAuthMiddleware(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(t *jwt.Token) (any, error) {
		return secret, nil
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "인증 토큰이 필요합니다.", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "인증 헤더 형식이 올바르지 않습니다.", nil))
			return
		}

		token, err := parser.Parse(strings.TrimSpace(parts[1]), keyFunc)
		if err == nil && !token.Valid {
			err = errors.New("token invalid")
		}
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusForbidden, "invalid_token", "유효하지 않은 인증 토큰입니다.", err))
			return
		}
		c.Next()
	}
}
