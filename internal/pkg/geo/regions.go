// Package geo maps map-widget region codes to the region names stored in the
// analytical datasets.
package geo

// regionNames covers every first-level administrative region the map can emit.
// Values match the normalized region strings in the master dataset.
var regionNames = map[string]string{
	"MX-AGU": "AGUASCALIENTES",
	"MX-BCN": "BAJACALIFORNIA",
	"MX-BCS": "BAJACALIFORNIASUR",
	"MX-CAM": "CAMPECHE",
	"MX-COA": "COAHUILA",
	"MX-COL": "COLIMA",
	"MX-CHP": "CHIAPAS",
	"MX-CHH": "CHIHUAHUA",
	"MX-CMX": "CDMX",
	"MX-DUR": "DURANGO",
	"MX-GUA": "GUANAJUATO",
	"MX-GRO": "GUERRERO",
	"MX-HID": "HIDALGO",
	"MX-JAL": "JALISCO",
	"MX-MEX": "EDOMEX",
	"MX-MIC": "MICHOACAN",
	"MX-MOR": "MORELOS",
	"MX-NAY": "NAYARIT",
	"MX-NLE": "NUEVOLEON",
	"MX-OAX": "OAXACA",
	"MX-PUE": "PUEBLA",
	"MX-QUE": "QUERETARO",
	"MX-ROO": "QUINTANAROO",
	"MX-SLP": "SANLUISPOTOSI",
	"MX-SIN": "SINALOA",
	"MX-SON": "SONORA",
	"MX-TAB": "TABASCO",
	"MX-TAM": "TAMAULIPAS",
	"MX-TLA": "TLAXCALA",
	"MX-VER": "VERACRUZ",
	"MX-YUC": "YUCATAN",
	"MX-ZAC": "ZACATECAS",
}

// Translate resolves a map region code into the dataset region name. A code
// the map never emits returns ok=false; callers treat that as an empty
// region, not an error.
func Translate(code string) (string, bool) {
	name, ok := regionNames[code]
	return name, ok
}

// Codes lists every known region code.
func Codes() []string {
	codes := make([]string, 0, len(regionNames))
	for code := range regionNames {
		codes = append(codes, code)
	}
	return codes
}
