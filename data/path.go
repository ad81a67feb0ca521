package data

// NormalizePath converts a resource path into its canonical form:
// backslash separators, ASCII lowercase, no redundant current-directory
// segments. Two path strings naming the same resource normalize to the
// same canonical string, so providers can compare them directly.
//
// The function is purely syntactic. It performs no validation of path
// components and never touches the filesystem.
func NormalizePath(path string) string {
	buf := make([]byte, 0, len(path))
	for i := 0; i < len(path); i++ {
		buf = AppendNormalized(buf, path[i])
	}
	buf = FinishNormalized(buf)
	return string(buf)
}

// AppendNormalized folds a single character into a canonical path under
// construction. Forward slashes become backslashes, ASCII uppercase folds
// to lowercase, and any redundant segment the new character completes is
// collapsed immediately. Callers building paths incrementally feed every
// character through here and must finish with FinishNormalized.
func AppendNormalized(buf []byte, c byte) []byte {
	if c == '/' {
		c = '\\'
	} else if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return collapse(append(buf, c), false)
}

// FinishNormalized applies the collapse rules one final time with no
// further input, so a path whose accumulated form is a bare "." vanishes.
func FinishNormalized(buf []byte) []byte {
	return collapse(buf, true)
}

// collapse removes the redundant segment, if any, at the end of buf.
// A lone leading ".\" denotes no prefix and truncates to empty; an
// embedded "\.\" collapses to a single separator. The rules fire at most
// once per appended character, which is enough: repeated ".\" runs are
// dismantled one segment at a time as the characters arrive.
func collapse(buf []byte, final bool) []byte {
	n := len(buf)
	switch {
	case n == 2 && buf[0] == '.' && buf[1] == '\\':
		return buf[:0]
	case final && n == 1 && buf[0] == '.':
		return buf[:0]
	case n >= 3 && buf[n-3] == '\\' && buf[n-2] == '.' && buf[n-1] == '\\':
		return buf[:n-2]
	}
	return buf
}
