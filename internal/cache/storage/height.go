package storage

// Stored heights are shifted by one so that 0 can mean "nothing stored".

// ToInternal maps an external height to the stored height.
func ToInternal(external uint64) uint64 {
	return external + 1
}

// ToExternal maps a stored height back to the external height. ok is false for the
// empty sentinel.
func ToExternal(internal uint64) (external uint64, ok bool) {
	if internal == 0 {
		return 0, false
	}
	return internal - 1, true
}

// Depth returns how far a stored height lies below the highest stored height.
func Depth(maxInternal, internal uint64) uint64 {
	if internal >= maxInternal {
		return 0
	}
	return maxInternal - internal
}
