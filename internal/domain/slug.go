package domain

import (
	"strconv"
	"strings"
)

// Slugify converts a title into its URL-safe slug form: lowercase, with every
// run of non-alphanumeric characters collapsed to a single hyphen and leading
// or trailing hyphens trimmed. The result is deterministic — the same title
// always yields the same slug — and may be empty when the input contains no
// alphanumeric characters at all.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UniqueSlug returns base if it does not appear in taken, otherwise the first
// suffixed variant (base-2, base-3, …) that is free. The caller supplies the
// slugs already in use within the tenant, typically fetched inside the same
// transaction that will insert the new row.
func UniqueSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
