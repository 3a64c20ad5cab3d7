// Package identity resolves a display name for the session greeting. It is
// purely cosmetic; nothing depends on it being set.
package identity

import (
	"os"
	"os/user"
	"strings"
)

// DisplayName returns the learner's display name, preferring LERNIX_USER,
// then the OS account's full name, then the login name. Returns "" when
// nothing is available.
func DisplayName() string {
	if name := strings.TrimSpace(os.Getenv("LERNIX_USER")); name != "" {
		return name
	}

	u, err := user.Current()
	if err != nil {
		return ""
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		// Some systems pad the GECOS field with commas.
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name != "" {
			return name
		}
	}
	return u.Username
}
