package minecraft

import "strings"

// CompareVersions compares two library versions. It returns -1 if a < b, 0 if they are equal
// and 1 if a > b.
//
// Versions are split on "." and "-". Numeric parts are compared as numbers,
// a numeric part is greater than a non numeric part and everything else is
// compared case insensitive. If one version is a prefix of the other, the longer one is greater
func CompareVersions(a, b string) int {
	left := splitVersion(a)
	right := splitVersion(b)

	for i := 0; i < len(left) && i < len(right); i++ {
		if c := compareToken(left[i], right[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(left) > len(right):
		return 1
	case len(left) < len(right):
		return -1
	}
	return 0
}

func splitVersion(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-'
	})
}

func compareToken(a, b string) int {
	aNum, bNum := isNumeric(a), isNumeric(b)
	switch {
	case aNum && bNum:
		return compareNumeric(a, b)
	case aNum:
		return 1
	case bNum:
		return -1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareNumeric compares digit strings of any length
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) > len(b) {
			return 1
		}
		return -1
	}
	return strings.Compare(a, b)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
