package pw

// Transform computes the new protected-file content from the current one.
type Transform func(current []byte) []byte

// DefaultMarker is appended by AppendMarker when no marker is configured.
const DefaultMarker = "# No-op comment added by pwrite"

// AppendMarker returns a Transform producing current + "\n" + marker.
func AppendMarker(marker string) Transform {
	return func(current []byte) []byte {
		out := make([]byte, 0, len(current)+1+len(marker))
		out = append(out, current...)
		out = append(out, '\n')
		return append(out, marker...)
	}
}
