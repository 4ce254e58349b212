package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	Role string `json:"role"` // "Admin" or "Staff"
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Issue sub 放用户名，控制台侧边栏直接展示
func (j *JWTer) Issue(uid, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Name: username,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// Operator 侧边栏展示用
type Operator struct {
	Name string
	Role string
}

// DefaultOperator token 里取不到时的兜底
var DefaultOperator = Operator{Name: "admin", Role: "admin"}

// Peek 只解码不验签，控制台拿不到后端密钥；过期和签名由后端负责
func Peek(tokenStr string) Operator {
	op := DefaultOperator
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return op
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return op
	}
	for _, k := range []string{"name", "username", "sub"} {
		if s, ok := claims[k].(string); ok && s != "" {
			op.Name = s
			break
		}
	}
	for _, k := range []string{"role", "roles"} {
		switch v := claims[k].(type) {
		case string:
			if v != "" {
				op.Role = v
			}
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && s != "" {
					op.Role = s
				}
			}
		}
		if op.Role != DefaultOperator.Role {
			break
		}
	}
	return op
}
