// api/middleware/auth.go
package middleware

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/config"
	logger "github.com/trashmob-eco/trashmob-api/logging"
)

type JSONWebKey struct {
	Kty string `json:"kty"`
	E   string `json:"e"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
}

type Jwks struct {
	Keys []JSONWebKey `json:"keys"`
}

type IdentityClaims struct {
	jwt.StandardClaims
	CognitoGroups   []string `json:"cognito:groups"`
	CognitoUsername string   `json:"cognito:username"`
	EmailVerified   bool     `json:"email_verified"`
	Email           string   `json:"email"`
	Scope           string   `json:"scope"`
}

var (
	publicKeyOnce sync.Once
	publicKey     *rsa.PublicKey
	publicKeyErr  error
)

// GetCognitoPublicKey fetches the public key from a specified Cognito JWKS endpoint
func GetCognitoPublicKey(region, userPoolID string) (*rsa.PublicKey, error) {
	jwksUrl := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)

	resp, err := http.Get(jwksUrl)
	if err != nil {
		logger.Error("Failed to fetch JWKS", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Received non-OK HTTP status from JWKS endpoint", zap.Int("statusCode", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK HTTP status from JWKS endpoint: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read JWKS response body", zap.Error(err))
		return nil, err
	}

	var jwks Jwks
	if err := json.Unmarshal(body, &jwks); err != nil {
		logger.Error("Failed to unmarshal JWKS JSON", zap.Error(err))
		return nil, err
	}

	if len(jwks.Keys) == 0 {
		return nil, fmt.Errorf("no keys found in JWKS")
	}

	key := jwks.Keys[0]
	nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		logger.Error("Failed to decode modulus", zap.Error(err))
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		logger.Error("Failed to decode exponent", zap.Error(err))
		return nil, err
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes).Int64()

	return &rsa.PublicKey{N: n, E: int(e)}, nil
}

func signingKey() (*rsa.PublicKey, error) {
	publicKeyOnce.Do(func() {
		cfg := config.GetConfig().Auth.Cognito
		publicKey, publicKeyErr = GetCognitoPublicKey(cfg.AWSRegion, cfg.UserPoolID)
	})
	return publicKey, publicKeyErr
}

// Auth resolves the bearer token into the calling principal and stores it on
// the request context for the authorization gates. Requests without a valid
// token, or whose token lacks the scope the verb requires, proceed
// anonymously; the policy layer denies them on gated routes.
func Auth() gin.HandlerFunc {
	cognito := config.GetConfig().Auth.Cognito
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			logger.Warn("Rejected bearer token",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path))
			c.Next()
			return
		}

		required := requiredScope(c.Request.Method, cognito.ReadScope, cognito.WriteScope)
		if !hasScope(claims.Scope, required) {
			logger.Warn("Bearer token missing required scope",
				zap.String("requiredScope", required),
				zap.String("path", c.Request.URL.Path))
			c.Next()
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("userName", claims.CognitoUsername)
		c.Set("isSiteAdmin", isUserInGroup(claims, cognito.AdminGroup))

		c.Next()
	}
}

// requiredScope maps the HTTP verb onto the scope the token must carry.
func requiredScope(method, readScope, writeScope string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return readScope
	default:
		return writeScope
	}
}

// hasScope checks the space-separated scope claim for an exact entry.
func hasScope(scopeClaim, scope string) bool {
	for _, s := range strings.Fields(scopeClaim) {
		if s == scope {
			return true
		}
	}
	return false
}

func parseToken(tokenString string) (*IdentityClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	key, err := signingKey()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*IdentityClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token or wrong claims type")
}

func isUserInGroup(claims *IdentityClaims, group string) bool {
	for _, userGroup := range claims.CognitoGroups {
		if userGroup == group {
			return true
		}
	}
	return false
}
