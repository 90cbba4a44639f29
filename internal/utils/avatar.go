package utils

import "strings"

// AvatarInitials derives the two-letter avatar shown next to a user's name.
func AvatarInitials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(part[:1]))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
