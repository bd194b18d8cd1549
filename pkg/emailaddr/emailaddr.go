// Package emailaddr holds the canonical form used for every stored or
// compared email address.
package emailaddr

import "strings"

// Normalize trims surrounding space and lower-cases the address. Accounts,
// logins and share grants all go through it so they compare equal.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
