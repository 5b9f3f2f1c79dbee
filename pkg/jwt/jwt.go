// Package jwt emite y verifica los tokens HS256 con los que se identifican los operadores del inventario.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret  = errors.New("jwt: secreto vacío")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Claims del operador. Subject lleva el usuario; Role alimenta el RBAC de las rutas de escritura.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Signer firma y verifica tokens con un único secreto compartido.
// Con issuer vacío Verify no exige el claim iss.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner valida el secreto. ttl solo se usa al emitir.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// WithClock devuelve una copia que toma la hora de now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	cp := *s
	cp.now = now
	return &cp
}

// Issue emite un token para userID con el rol dado, vigente durante el ttl del signer.
func (s *Signer) Issue(userID, role string) (string, error) {
	if s.ttl <= 0 {
		return "", fmt.Errorf("jwt: vigencia no positiva (%s)", s.ttl)
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify comprueba firma, algoritmo, vencimiento y emisor. Todo rechazo cumple errors.Is(err, ErrInvalidToken).
func (s *Signer) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: sin sujeto", ErrInvalidToken)
	}
	return claims, nil
}
