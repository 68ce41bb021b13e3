package domain

// ResolveProfile reports whether now falls in the day profile, the half-open
// interval [sunrise, sunset). When sunset is earlier than sunrise the
// comparison is still evaluated literally, so the result is always night.
func ResolveProfile(now, sunrise, sunset TimeOfDay) bool {
	return !now.Before(sunrise) && now.Before(sunset)
}
