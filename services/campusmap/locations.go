package campusmap

// Location is a named campus building.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Center is the default map centre.
var Center = [2]float64{42.3365, -71.170}

// Bounds are the south-west and north-east corners of the residential area.
var Bounds = [2][2]float64{
	{42.3320, -71.1775},
	{42.3410, -71.1640},
}

// Locations is the campus catalogue used for heatmaps and marker grouping.
var Locations = []Location{
	{"Claver Hall", 42.333147687075574, -71.1761562920212},
	{"Xavier Hall", 42.333661666021186, -71.175857647586532},
	{"Loyola Hall", 42.333437447534564, -71.1759976371653},
	{"Fenwick Hall", 42.334320518794854, -71.17572232432707},
	{"Cheverus Hall", 42.334375710339444, -71.17517169866777},
	{"Kostka Hall", 42.33322012731801, -71.17444375285824},
	{"Welch Hall", 42.33397212107015, -71.17326784039668},
	{"Roncalli Hall", 42.333627170923954, -71.17299719387776},
	{"Gabelli Hall", 42.3387723149792, -71.16945064908424},
	{"Stayer Hall", 42.33881830221958, -71.16625984869545},
	{"90 St. Thomas More", 42.33866802694776, -71.16813114310135},
	{"Ignacio Hall", 42.337790010392375, -71.16986945676592},
	{"Rubenstein Hall", 42.33826431591039, -71.16971055902336},
	{"Voute Hall", 42.33811149358272, -71.17057820822723},
	{"The Mods", 42.33782434929166, -71.16655997605928},
	{"Thomas More Apartments", 42.339414577535436, -71.16489182033531},
	{"Walsh Hall", 42.338362951162125, -71.1653338344307},
}
