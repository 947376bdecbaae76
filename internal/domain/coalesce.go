package domain

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
