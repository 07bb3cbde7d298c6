package bytecode

// copySlice returns a copy of src, or nil when src is empty.
func copySlice[T any](src []T) []T {
	if len(src) == 0 {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}
