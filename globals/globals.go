package globals

import "os"

var JwtSecret = []byte(secretFromEnv())

func secretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "dev-only-secret"
}

// Context keys
type ContextKey string

const CheckoutIDKey ContextKey = "checkoutId"
