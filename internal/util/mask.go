// Package util contiene helpers chicos sin dependencias internas.
package util

import "strings"

// MaskEmail oculta el local-part y el primer label del dominio para logs:
// "alice@example.com" → "a…@e….com". Opera sobre runas.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	user, dom, ok := strings.Cut(s, "@")
	if !ok || user == "" {
		return maskPart(s)
	}

	labels := strings.Split(dom, ".")
	if len(labels) > 0 {
		labels[0] = maskPart(labels[0])
	}
	return maskPart(user) + "@" + strings.Join(labels, ".")
}

func maskPart(s string) string {
	r := []rune(s)
	if len(r) <= 1 {
		return s
	}
	return string(r[0]) + "…"
}
