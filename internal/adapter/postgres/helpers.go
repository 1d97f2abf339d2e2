package postgres

const (
	defaultLimit = 50
	maxLimit     = 200
)

// NormalizeRange applies the listing defaults and clamps limit/offset to
// sane bounds. Every List method routes its pagination through it.
func NormalizeRange(limit, offset int) (uint64, uint64) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}

// NullIfEmpty maps an empty string to NULL so an update can clear a
// nullable text column.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
