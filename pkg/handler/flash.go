package handler

// Flash messages ride in an HMAC-signed cookie so a redirect can carry
// a one-shot user notice without server-side session state.

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookieName = "smashboard_flash"

type FlashStore struct {
	secret []byte
}

func NewFlashStore(secret string) *FlashStore {
	return &FlashStore{secret: []byte(secret)}
}

func (f *FlashStore) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, f.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Set queues a message for the next page render.
func (f *FlashStore) Set(w http.ResponseWriter, message string) {
	payload := []byte(message)
	value := base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString(f.sign(payload))

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
}

// Pop reads and clears the pending message. Tampered or malformed
// cookies read as no message at all.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	parts := strings.SplitN(cookie.Value, ".", 2)
	if len(parts) != 2 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ""
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}
	if !hmac.Equal(sig, f.sign(payload)) {
		return ""
	}
	return string(payload)
}
