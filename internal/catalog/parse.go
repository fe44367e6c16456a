package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrUnknownDistrict = errors.New("unknown district")
	ErrUnknownCategory = errors.New("unknown service category")
)

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize trims s and collapses runs of whitespace (including full-width spaces) to one space.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ParseDistrict accepts a district label, with or without the trailing "구".
func ParseDistrict(raw string) (District, error) {
	s := Normalize(raw)
	if s == string(AllDistricts) {
		return AllDistricts, nil
	}
	for _, d := range Districts {
		if s == string(d) || s+"구" == string(d) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDistrict, raw)
}

// ParseCategory accepts a category code or its Korean label. Whitespace inside the
// label is not significant ("휠체어대여소" parses as WheelchairRental).
func ParseCategory(raw string) (Category, error) {
	s := Normalize(raw)
	if s == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	if s == AllServicesLabel || Category(s) == AllCategories {
		return AllCategories, nil
	}
	compact := strings.ReplaceAll(s, " ", "")
	for _, c := range Categories {
		if Category(strings.ToLower(s)) == c {
			return c, nil
		}
		if compact == strings.ReplaceAll(c.Label(), " ", "") {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// SplitServiceLabel recovers the bare category text from a composed
// "<district> <category>" label by removing the district and trimming.
func SplitServiceLabel(d District, label string) string {
	return strings.TrimSpace(strings.Replace(label, string(d), "", 1))
}
