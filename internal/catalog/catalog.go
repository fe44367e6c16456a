package catalog

// District is one of the administrative districts covered by the center.
type District string

const (
	Gangnam   District = "강남구"
	Seocho    District = "서초구"
	Gangdong  District = "강동구"
	Songpa    District = "송파구"
	Seongdong District = "성동구"
	Gwangjin  District = "광진구"

	// AllDistricts is the explorer's "전체" choice. It is a selection, never a record value.
	AllDistricts District = "전체"
)

// Districts lists the storable districts in editor order.
var Districts = []District{Gangnam, Seocho, Gangdong, Songpa, Seongdong, Gwangjin}

// ExplorerDistricts lists the districts offered by the explorer wizard.
var ExplorerDistricts = []District{AllDistricts, Gangnam, Gangdong, Songpa, Seocho, Gwangjin, Seongdong}

// Category is a service category of a facility.
type Category string

const (
	ChargingStation       Category = "charging-station"
	RepairVendor          Category = "repair-vendor"
	PortableChargerRental Category = "portable-charger-rental"
	WheelchairRental      Category = "wheelchair-rental"

	// AllCategories matches every service type.
	AllCategories Category = "all"
)

// AllServicesLabel is the composed label that disables service filtering.
const AllServicesLabel = "전체 서비스"

var categoryLabels = map[Category]string{
	ChargingStation:       "전동휠체어 충전소",
	RepairVendor:          "수리 지정 업체",
	PortableChargerRental: "휴대용 충전기 대여소",
	WheelchairRental:      "휠체어 대여소",
	AllCategories:         AllServicesLabel,
}

// Categories lists the storable categories in display order.
var Categories = []Category{ChargingStation, RepairVendor, PortableChargerRental, WheelchairRental}

// Label returns the Korean display label stored in a record's service type.
func (c Category) Label() string {
	return categoryLabels[c]
}

// Valid reports whether c is a storable category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok && c != AllCategories
}

// Valid reports whether d is a storable district.
func (d District) Valid() bool {
	for _, known := range Districts {
		if d == known {
			return true
		}
	}
	return false
}

// ServiceLabel composes the explorer title "<district> <category>".
func ServiceLabel(d District, c Category) string {
	return string(d) + " " + c.Label()
}

// Default values given to a freshly added record.
const (
	DefaultDistrict = Gangnam
	DefaultCategory = ChargingStation
)
