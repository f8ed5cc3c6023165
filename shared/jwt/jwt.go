package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	internal_errors "github.com/previewer-dev/previewer/shared/errors"
	"github.com/previewer-dev/previewer/shared/logger"
)

// HandshakeClaims is what the host hands over when it mounts the previewer.
// SubResultID uses the host's sentinels: absent, 0 or -1 mean "latest attempt".
type HandshakeClaims struct {
	Project     string `json:"project"`
	Host        string `json:"host"`
	RunID       int64  `json:"run_id" validate:"required,gt=0"`
	ResultID    *int64 `json:"result_id,omitempty"`
	SubResultID *int64 `json:"sub_result_id,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	jwt.RegisteredClaims
}

type HandshakeService interface {
	NewToken(claims HandshakeClaims) (string, error)
	DecodeToken(tokenStr string) (*HandshakeClaims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
	validate  *validator.Validate
}

func New(secretKey string, ttl time.Duration) HandshakeService {
	return &Jwt{secretKey: secretKey, ttl: ttl, validate: validator.New()}
}

func (j *Jwt) NewToken(claims HandshakeClaims) (string, error) {
	if claims.ExpiresAt == nil && j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(j.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("signing handshake token", "error", err)
		return "", errors.New("Can't create token")
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(tokenStr string) (*HandshakeClaims, error) {
	claims := &HandshakeClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("rejected handshake token", "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid handshake token", StatusCode: http.StatusUnauthorized}
	}

	if err := j.validate.Struct(claims); err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Handshake claims incomplete", StatusCode: http.StatusBadRequest}
	}
	return claims, nil
}
