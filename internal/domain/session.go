package domain

import "time"

// AdminSession is the identity carried by a valid session cookie.
type AdminSession struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
