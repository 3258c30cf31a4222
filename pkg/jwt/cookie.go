package jwt

import (
	"net/http"
	"time"
)

const AccessCookie = "accessToken"

// CreateCookie builds the auth cookie. MaxAge mirrors expTime so clients that
// ignore Expires drop it at the same moment.
func CreateCookie(name string, value string, path string, expTime time.Time) *http.Cookie {
	maxAge := int(time.Until(expTime).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
