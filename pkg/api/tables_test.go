package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTableKind(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		kind TableKind
	}{
		{
			name: "places",
			rows: []Row{{"Place": "Sigiriya", "Description": "Rock fortress"}},
			kind: TablePlaces,
		},
		{
			name: "accommodations by name",
			rows: []Row{{"Accommodation": "Hotel Kandy", "Rating": 4.5}},
			kind: TableAccommodations,
		},
		{
			name: "accommodations by type",
			rows: []Row{{"Type": "Guesthouse", "Price": 30}},
			kind: TableAccommodations,
		},
		{
			name: "hospitals",
			rows: []Row{{"Hospital": "General Hospital", "City": "Colombo"}},
			kind: TableHospitals,
		},
		{
			name: "hospitals by medical type",
			rows: []Row{{"Medical_Type": "Private", "Name": "Asiri"}},
			kind: TableHospitals,
		},
		{
			name: "restaurants",
			rows: []Row{{"Restaurant": "Ministry of Crab"}},
			kind: TableRestaurants,
		},
		{
			name: "restaurants by cuisine",
			rows: []Row{{"Cuisine": "Seafood", "Name": "Upali's"}},
			kind: TableRestaurants,
		},
		{
			name: "police stations",
			rows: []Row{{"Police_Station": "Galle"}},
			kind: TablePoliceStations,
		},
		{
			name: "weather",
			rows: []Row{{"Weather_Description": "sunny", "Temp": 31.234}},
			kind: TableWeather,
		},
		{
			name: "place without description is generic",
			rows: []Row{{"Place": "Ella"}},
			kind: TableGeneric,
		},
		{
			name: "unknown keys",
			rows: []Row{{"Foo": "bar"}},
			kind: TableGeneric,
		},
		{
			name: "empty",
			rows: nil,
			kind: TableGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, DetectTableKind(tt.rows))
		})
	}
}

func TestTableKindTitles(t *testing.T) {
	assert.Equal(t, "Places to Visit", TablePlaces.Title())
	assert.Equal(t, "Accommodations Summary", TableAccommodations.Title())
	assert.Equal(t, "Hospitals Summary", TableHospitals.Title())
	assert.Equal(t, "Restaurants Summary", TableRestaurants.Title())
	assert.Equal(t, "Police Stations Summary", TablePoliceStations.Title())
	assert.Equal(t, "Weather Summary", TableWeather.Title())
	assert.Equal(t, "Data Summary", TableGeneric.Title())
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings("")
	assert.Equal(t, "English", settings.Language)
	assert.Equal(t, "Friendly", settings.PolitenessLevel)
	assert.Equal(t, "Casual", settings.Formality)
	assert.Equal(t, 0.7, settings.Creativity)
	assert.Equal(t, "Medium", settings.ResponseLength)

	assert.Equal(t, "Sinhala", DefaultSettings("Sinhala").Language)
}
