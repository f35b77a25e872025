package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
)

const hmacScheme = "HMAC-SHA256 "

// HMACAuth verifies an `Authorization: HMAC-SHA256 <hex>` signature
// computed over the raw request body with the shared secret. The body
// is restored for downstream handlers.
func HMACAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusForbidden, "Missing Authorization header")
				return
			}

			provided, ok := strings.CutPrefix(authHeader, hmacScheme)
			if !ok || provided == "" {
				writeError(w, http.StatusForbidden, "Invalid Authorization header format")
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !validSignature(secret, body, provided) {
				writeError(w, http.StatusForbidden, "Invalid HMAC signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validSignature(secret string, body []byte, providedHex string) bool {
	provided, err := hex.DecodeString(providedHex)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hmac.Equal(mac.Sum(nil), provided)
}

// Sign computes the hex HMAC-SHA256 signature of a request body. Shared
// with tests and client tooling.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}
