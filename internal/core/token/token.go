// Package token implements the signed session token carried by the admin
// cookie. The wire format is fixed by cookies already issued in production:
//
//	base64url(json claims) + "." + hex(HMAC-SHA256(secret, base64url payload))
//
// The MAC is computed over the encoded payload, not the raw JSON, so the
// byte string the client holds is exactly the byte string that is verified.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Claims is the token payload. Exp is a unix timestamp in seconds and is
// mandatory: a token without an expiry never verifies.
type Claims struct {
	Sub string `json:"sub,omitempty"`
	Exp int64  `json:"exp"`
}

// Sign serializes claims and returns the signed token string.
func Sign(claims Claims, secret []byte) (string, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + hex.EncodeToString(mac(payload, secret)), nil
}

// Verify checks token against secret at the given instant. Every failure
// mode collapses to ok=false: malformed shape, MAC mismatch, undecodable
// payload, missing exp, or now at/past exp. No detail about which check
// failed leaves this package.
func Verify(tok string, secret []byte, now time.Time) (Claims, bool) {
	var claims Claims

	payload, sigHex, found := strings.Cut(tok, ".")
	if !found || payload == "" || sigHex == "" || strings.Contains(sigHex, ".") {
		return Claims{}, false
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return Claims{}, false
	}
	if !hmac.Equal(sig, mac(payload, secret)) {
		return Claims{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Claims{}, false
	}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return Claims{}, false
	}
	if claims.Exp == 0 {
		return Claims{}, false
	}
	if !now.Before(time.Unix(claims.Exp, 0)) {
		return Claims{}, false
	}
	return claims, true
}

func mac(payload string, secret []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(payload))
	return h.Sum(nil)
}
