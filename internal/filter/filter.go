// Package filter computes the visible subset of the directory for an explorer selection.
package filter

import (
	"net/url"
	"strings"

	"smartmap-backend/internal/catalog"
	"smartmap-backend/internal/model"
)

// Selection is the pair of explorer choices a list is filtered by.
type Selection struct {
	District catalog.District
	Category catalog.Category
}

// Filter keeps the records matching sel, in their original order. AllDistricts and
// AllCategories disable the respective predicate. A category matches any record whose
// service type contains the category label, so data-side variants still match.
func Filter(recs []model.Facility, sel Selection) []model.Facility {
	label := ""
	if sel.Category != catalog.AllCategories {
		label = sel.Category.Label()
	}
	return apply(recs, sel.District, label, sel.Category == catalog.AllCategories)
}

// FilterByLabel filters with a composed "<district> <category>" label: the district
// prefix is stripped and the remainder matched as a substring of the service type.
// The label "전체 서비스" disables service filtering.
func FilterByLabel(recs []model.Facility, district catalog.District, serviceLabel string) []model.Facility {
	if serviceLabel == catalog.AllServicesLabel {
		return apply(recs, district, "", true)
	}
	return apply(recs, district, catalog.SplitServiceLabel(district, serviceLabel), false)
}

func apply(recs []model.Facility, district catalog.District, service string, allServices bool) []model.Facility {
	out := make([]model.Facility, 0, len(recs))
	for _, r := range recs {
		if district != catalog.AllDistricts && r.District != string(district) {
			continue
		}
		if !allServices && !strings.Contains(r.ServiceType, service) {
			continue
		}
		out = append(out, r)
	}
	return out
}

const kakaoSearchURL = "https://map.kakao.com/link/search/"

// MapURL returns the external map search link for an address.
func MapURL(address string) string {
	return kakaoSearchURL + escapeComponent(address)
}

// escapeComponent escapes s the way encodeURIComponent does.
func escapeComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	r := strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")
	return r.Replace(escaped)
}
