package dedupe

import "strings"

// ByKey removes duplicates from items, keeping the first occurrence of each
// key and preserving input order. Items whose key is empty are kept as-is;
// an empty key means the row carries no identity we can compare on.
func ByKey[T any](items []T, keyFn func(T) string) []T {
	if len(items) == 0 {
		return items
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))

	for _, item := range items {
		key := keyFn(item)
		if key == "" {
			out = append(out, item)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out
}

// NormalizePart lowercases, trims and collapses internal whitespace so that
// legacy rows like "Paracetamol 500mg" and "paracetamol 500MG " compare equal.
func NormalizePart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Key builds a normalized composite key from its parts, e.g. category:name
// for tasks or name:dosage for medications.
func Key(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = NormalizePart(p)
	}
	return strings.Join(normalized, ":")
}
