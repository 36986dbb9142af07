package zipmap

// DefaultTable covers the southeast Louisiana parishes used by the demo dataset.
func DefaultTable() []Entry {
	return []Entry{
		{Area: "Tangipahoa", Zip: "70401", Lat: 30.5044, Lon: -90.4612},
		{Area: "Orleans", Zip: "70112", Lat: 29.9566, Lon: -90.0771},
		{Area: "Jefferson", Zip: "70001", Lat: 29.9838, Lon: -90.1626},
		{Area: "St. Tammany", Zip: "70433", Lat: 30.4755, Lon: -90.1009},
		{Area: "East Baton Rouge", Zip: "70801", Lat: 30.4515, Lon: -91.1871},
		{Area: "Livingston", Zip: "70754", Lat: 30.5022, Lon: -90.7479},
		{Area: "Lafayette", Zip: "70501", Lat: 30.2241, Lon: -92.0198},
		{Area: "Calcasieu", Zip: "70601", Lat: 30.2266, Lon: -93.2174},
		{Area: "Terrebonne", Zip: "70360", Lat: 29.5958, Lon: -90.7195},
		{Area: "Lafourche", Zip: "70301", Lat: 29.7958, Lon: -90.8229},
		{Area: "St. Bernard", Zip: "70043", Lat: 29.9421, Lon: -89.9634},
		{Area: "Plaquemines", Zip: "70037", Lat: 29.5313, Lon: -89.7862},
		{Area: "Washington", Zip: "70438", Lat: 30.8524, Lon: -90.1573},
		{Area: "Caddo", Zip: "71101", Lat: 32.5093, Lon: -93.7500},
		{Area: "Ouachita", Zip: "71201", Lat: 32.5093, Lon: -92.1193},
	}
}

func NewDefault() *Mapper {
	return New(DefaultTable())
}
