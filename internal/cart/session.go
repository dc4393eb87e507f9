package cart

import (
	"encoding/json"
	"fmt"

	"github.com/gin-contrib/sessions"
)

const sessionKey = "cart"

// Load reads the cart stored in the session. A missing or unreadable entry
// yields an empty cart.
func Load(s sessions.Session) *Cart {
	c := &Cart{}
	raw, ok := s.Get(sessionKey).(string)
	if !ok || raw == "" {
		return c
	}
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		return &Cart{}
	}
	return c
}

// Save writes the cart back into the session and flushes the session.
func Save(s sessions.Session, c *Cart) error {
	if c.Empty() {
		s.Delete(sessionKey)
	} else {
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		s.Set(sessionKey, string(b))
	}
	if err := s.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
