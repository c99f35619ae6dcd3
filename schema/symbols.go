package schema

// StatusSymbols maps porcelain status codes to display symbols.
var StatusSymbols = map[byte]string{
	' ': " ",
	'M': "~",
	'A': "+",
	'D': "-",
	'R': "→",
	'C': "C",
	'U': "U",
	'?': "?",
}

// StatusSymbol returns the display symbol for a porcelain status code.
// Codes missing from StatusSymbols are shown as-is.
func StatusSymbol(code byte) string {
	if s, ok := StatusSymbols[code]; ok {
		return s
	}
	return string(code)
}

// IsChangeCode reports whether a porcelain status code marks a recorded change,
// as opposed to an unmodified or untracked slot.
func IsChangeCode(code byte) bool {
	return code != ' ' && code != '?'
}
