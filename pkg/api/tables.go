package api

// TableKind classifies a tabular payload by the columns present in its first
// row. The backend does not tag result tables, so the kind is inferred the
// same way the chat UI picks a table title.
type TableKind int

const (
	TableGeneric TableKind = iota
	TablePlaces
	TableAccommodations
	TableHospitals
	TableRestaurants
	TablePoliceStations
	TableWeather
)

func DetectTableKind(rows []Row) TableKind {
	if len(rows) == 0 {
		return TableGeneric
	}

	first := rows[0]
	has := func(key string) bool {
		_, ok := first[key]
		return ok
	}

	switch {
	case has("Place") && has("Description"):
		return TablePlaces
	case has("Accommodation") || has("Type"):
		return TableAccommodations
	case has("Hospital") || has("Medical_Type"):
		return TableHospitals
	case has("Restaurant") || has("Cuisine"):
		return TableRestaurants
	case has("Police_Station"):
		return TablePoliceStations
	case has("Weather_Description"):
		return TableWeather
	}
	return TableGeneric
}

func (k TableKind) Title() string {
	switch k {
	case TablePlaces:
		return "Places to Visit"
	case TableAccommodations:
		return "Accommodations Summary"
	case TableHospitals:
		return "Hospitals Summary"
	case TableRestaurants:
		return "Restaurants Summary"
	case TablePoliceStations:
		return "Police Stations Summary"
	case TableWeather:
		return "Weather Summary"
	default:
		return "Data Summary"
	}
}
