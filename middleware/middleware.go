package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"skylane/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// Claims ties a token to one checkout in progress. Starting a checkout
// issues the token; every step endpoint requires it.
type Claims struct {
	CheckoutID string `json:"checkoutId"`
	jwt.RegisteredClaims
}

// CreateCheckoutToken signs a session token for a freshly started checkout.
func CreateCheckoutToken(checkoutID string) (string, error) {
	claims := &Claims{
		CheckoutID: checkoutID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
}

// Authenticate guards checkout endpoints. The checkout id from the token is
// stored on the request context; handlers compare it with the path param.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
			return globals.JwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.CheckoutIDKey, claims.CheckoutID)
		next(w, r.WithContext(ctx), ps)
	}
}

// CheckoutIDFromRequest returns the checkout id the caller's token grants
// access to, or "".
func CheckoutIDFromRequest(r *http.Request) string {
	id, ok := r.Context().Value(globals.CheckoutIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// ValidateJWT parses a raw "Bearer ..." header value.
func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" || len(tokenString) < 8 {
		return nil, fmt.Errorf("invalid token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}
