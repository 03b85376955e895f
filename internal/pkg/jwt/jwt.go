package jwt

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 signer/verifier. Tokens are issued by the
// identity provider in production; GenerateAccessToken exists for tooling
// and tests.
func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"user_id":     actor.UserID,
		"employee_id": returnValueOrNil(actor.EmployeeID),
		"role":        string(actor.Role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
