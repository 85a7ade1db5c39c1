// Package token issues and validates the single-use action tokens embedded
// in check-in/check-out QR codes.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"qr-attendance-backend/models"
)

const (
	ActionCheckIn  = "in"
	ActionCheckOut = "out"
)

// Codec produces tokens of the form "<action>_<yyyymmdd>_<digest>", where
// the digest is a truncated sha256 over the action, the full issuance
// timestamp and the shared secret.
type Codec struct {
	secret string
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

func (c *Codec) Issue(action string) string {
	now := c.now()
	// Microsecond-resolution timestamp so two tokens issued back to back
	// never collide.
	timestamp := now.Format("20060102150405") + fmt.Sprintf("%06d", now.Nanosecond()/1000)

	raw := fmt.Sprintf("%s|%s|%s", action, timestamp, c.secret)
	sum := sha256.Sum256([]byte(raw))
	digest := hex.EncodeToString(sum[:])[:10]

	return fmt.Sprintf("%s_%s_%s", action, timestamp[:8], digest)
}

// Verify parses a scanned token and returns its action kind. Only the shape
// and the action kind are checked: the token carries the issuance timestamp
// truncated to its date, so the digest cannot be recomputed from the token
// alone. Single-use enforcement lives in the token ledger, not here.
func (c *Codec) Verify(tok string) (string, error) {
	parts := strings.Split(tok, "_")
	if len(parts) != 3 {
		return "", models.ErrInvalidToken
	}

	action := parts[0]
	if action != ActionCheckIn && action != ActionCheckOut {
		return "", models.ErrInvalidToken
	}

	return action, nil
}
