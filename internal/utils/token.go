package utils // package utils provides helper functions for session tokens and hashing

import (
    "errors"
    "net/http"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
    "github.com/labstack/echo/v4"
)

// TokenCookieName is the cookie that carries the session token.  The name
// is part of the external contract with the frontend, which clears it on
// logout and sends it on every API call.
const TokenCookieName = "jwt"

// SessionClaims is what the server learns about a request from a valid
// session token: who the user is and whether they hold the admin flag.
// Sessions are stateless; there is no server-side session table, so a
// token cannot be revoked before its expiry.
type SessionClaims struct {
    UserID  uint64
    IsAdmin bool
}

// NewSessionToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the admin flag, and a TTL in days.  The JWT
// includes standard claims: subject (sub), admin, expiration (exp) and
// issued at (iat).  It returns the serialized token and its expiry.
func NewSessionToken(secret string, userID uint64, isAdmin bool, ttlDays int) (string, time.Time, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":   userID,
        "admin": isAdmin,
        "exp":   exp.Unix(),
        "iat":   time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// ParseSessionToken validates a serialized session token and extracts its
// claims.  Tokens signed with anything but HMAC are rejected, as are
// expired or otherwise invalid tokens.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return SessionClaims{}, errors.New("invalid token")
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return SessionClaims{}, errors.New("invalid claims")
    }
    sub, ok := claims["sub"].(float64) // JWT numbers decode as float64
    if !ok || sub <= 0 {
        return SessionClaims{}, errors.New("invalid subject")
    }
    admin, _ := claims["admin"].(bool)
    return SessionClaims{UserID: uint64(sub), IsAdmin: admin}, nil
}

// SetTokenCookie attaches the session token to the response as an
// HTTP-only cookie.  Secure is only set outside of dev so local HTTP
// testing keeps working.
func SetTokenCookie(c echo.Context, token string, exp time.Time, env string) {
    c.SetCookie(&http.Cookie{
        Name:     TokenCookieName,
        Value:    token,
        Path:     "/",
        Expires:  exp,
        HttpOnly: true,
        Secure:   env != "dev",
        SameSite: http.SameSiteStrictMode,
    })
}

// ClearTokenCookie overwrites the session cookie with an empty value and
// an expiry in the past.  This is the whole logout mechanism: the token
// itself stays valid until it expires, the client just stops sending it.
func ClearTokenCookie(c echo.Context) {
    c.SetCookie(&http.Cookie{
        Name:     TokenCookieName,
        Value:    "",
        Path:     "/",
        Expires:  time.Unix(0, 0),
        MaxAge:   -1,
        HttpOnly: true,
        SameSite: http.SameSiteStrictMode,
    })
}
