package internal

import (
	"regexp"
)

const (
	// A valid name must start with a letter, digit or underscore.
	// It may contain any character after that except control and slash.
	pattern = `^[\pL\pN_][^\pC/]*$`
	// It may not end with a whitespace character, or be a reserved word.
	antiPattern = `(\pZ|^(byte|char|short|int|float|double))$`
)

var (
	re     = regexp.MustCompile(pattern)
	antiRe = regexp.MustCompile(antiPattern)
)

// IsValidNetCDFName returns true if name is a valid NetCDF name.
// The decoder does not reject invalid names, it only warns about them.
func IsValidNetCDFName(name string) bool {
	return re.MatchString(name) && !antiRe.MatchString(name)
}
