package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores de validación. Expirado se distingue de inválido porque el
// middleware responde con códigos distintos para cada caso.
var (
	ErrExpired = errors.New("jwt: token expirado")
	ErrInvalid = errors.New("jwt: token inválido")
)

// Claims incluye los claims estándar JWT más el identificador del usuario.
// El resto del contexto (empresa, rol, departamento) se resuelve contra la DB
// en cada petición, por lo que no viaja en el token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Manager emite y valida el par de tokens de sesión. Los secretos de acceso y
// refresco son distintos: un refresh token nunca valida como access token.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewManager construye el manager. Ambos secretos son obligatorios.
func NewManager(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("jwt: secretos de access y refresh son obligatorios")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("jwt: los secretos de access y refresh no pueden ser iguales")
	}
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// AccessTTL devuelve la vigencia del access token (para el MaxAge de la cookie).
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL devuelve la vigencia del refresh token.
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// GenerateAccess emite un access token firmado para el usuario.
func (m *Manager) GenerateAccess(userID string) (string, error) {
	return m.generate(userID, m.accessSecret, m.accessTTL)
}

// GenerateRefresh emite un refresh token firmado para el usuario.
func (m *Manager) GenerateRefresh(userID string) (string, error) {
	return m.generate(userID, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) generate(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccess valida un access token y devuelve el id del usuario.
// Devuelve ErrExpired si el token venció y ErrInvalid para cualquier otro problema.
func (m *Manager) ParseAccess(tokenString string) (string, error) {
	return m.parse(tokenString, m.accessSecret)
}

// ParseRefresh valida un refresh token y devuelve el id del usuario.
func (m *Manager) ParseRefresh(tokenString string) (string, error) {
	return m.parse(tokenString, m.refreshSecret)
}

func (m *Manager) parse(tokenString string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalid
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", ErrInvalid
	}
	return userID, nil
}
