package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDistrict(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  District
		expectErr bool
	}{
		{name: "Exact label", raw: "강남구", expected: Gangnam},
		{name: "Surrounding whitespace", raw: "  송파구 ", expected: Songpa},
		{name: "Full-width space", raw: "　광진구", expected: Gwangjin},
		{name: "Without suffix", raw: "서초", expected: Seocho},
		{name: "All sentinel", raw: "전체", expected: AllDistricts},
		{name: "Outside coverage", raw: "마포구", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ParseDistrict(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrUnknownDistrict)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestParseCategory(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  Category
		expectErr bool
	}{
		{name: "Korean label", raw: "전동휠체어 충전소", expected: ChargingStation},
		{name: "Label without spaces", raw: "휠체어대여소", expected: WheelchairRental},
		{name: "Collapsed whitespace", raw: "수리   지정 업체", expected: RepairVendor},
		{name: "Code", raw: "portable-charger-rental", expected: PortableChargerRental},
		{name: "Upper-case code", raw: "REPAIR-VENDOR", expected: RepairVendor},
		{name: "All services label", raw: "전체 서비스", expected: AllCategories},
		{name: "Partial label", raw: "충전소", expectErr: true},
		{name: "Empty", raw: " ", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseCategory(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}
}

func TestServiceLabelRoundTrip(t *testing.T) {
	label := ServiceLabel(Gangnam, ChargingStation)
	assert.Equal(t, "강남구 전동휠체어 충전소", label)
	assert.Equal(t, "전동휠체어 충전소", SplitServiceLabel(Gangnam, label))
	assert.Equal(t, "충전소", SplitServiceLabel(Gangnam, "강남구 충전소"))
}

func TestValidity(t *testing.T) {
	assert.True(t, Seongdong.Valid())
	assert.False(t, AllDistricts.Valid())
	assert.True(t, WheelchairRental.Valid())
	assert.False(t, AllCategories.Valid())
	assert.Equal(t, "", Category("bogus").Label())
}
