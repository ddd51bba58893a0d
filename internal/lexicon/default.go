package lexicon

// Default returns the built-in Lima/Callao lexicon. Each call returns a fresh
// copy, so callers may modify the result.
func Default() *Lexicon {
	return &Lexicon{
		CrimeKeywords:         clone(defaultCrimeKeywords),
		ExclusionKeywords:     clone(defaultExclusionKeywords),
		ExcludedPathFragments: clone(defaultExcludedPathFragments),
		CrimeSectionFragments: clone(defaultCrimeSectionFragments),
		Districts:             cloneDistricts(defaultDistricts),
	}
}

var defaultCrimeKeywords = []string{
	// against life
	"asesinato", "asesinan", "asesino", "homicidio", "muerte", "muere", "fallece",
	"matan", "matar", "crimen", "sicario", "sicariato", "feminicidio",
	"acribillado", "acribillan", "baleado", "balean", "disparos", "disparan", "balacera",
	"cadáver", "cuerpo", "hallan cuerpo", "degollado", "descuartizado", "quemado",
	"envenenado", "estrangulado", "ajuste de cuentas", "tiroteo",

	// robbery
	"robo", "roban", "asaltan", "asalto", "delincuencia", "delincuente", "ladrón", "ladrones",
	"atraco", "arrebatador", "arrebatan", "raquetero", "raqueteros", "bujiazo",
	"marcas", "sacapintas", "cogotero", "autopartes", "desmantelan",

	// organized crime and extortion
	"extorsión", "extorsionadores", "extorsionan", "cupos", "cobro de cupos",
	"gota a gota", "gotagota", "prestamistas",
	"banda criminal", "organización criminal", "cártel", "mafia",
	"tren de aragua", "los pulpos",

	// violence and threats
	"secuestro", "secuestran", "tentativa", "amenaza", "amedrentan", "golpean", "golpiza",
	"agresión", "violencia", "abuso", "tocamientos", "violación", "ultrajan",
	"pepean", "pepeado", "droga", "tráfico ilícito", "microcomercialización",

	// police and justice
	"policía", "pnp", "comisaría",
	"captura", "capturan", "detenido", "detienen", "intervienen", "operativo",
	"allanamiento", "desarticulan", "incautan", "decomisan", "fiscalía", "prisión",
	"cárcel", "terna", "escuadrón verde", "suat", "dirincri", "diviac",

	// weapons
	"armas", "arma de fuego", "pistola", "revólver", "fusil", "cuchillo", "navaja", "arma blanca",
	"granada", "explosivo", "detonación", "dinamita", "artefacto explosivo",
}

var defaultExclusionKeywords = []string{
	// government and institutional news
	"gobierno", "estado de emergencia", "prórroga", "decreto", "oficial",
	"guardia municipal", "serenos", "serenazgo", "funciones", "municipalidad",
	"alcalde", "norma", "ley", "congreso",

	// features and profiles
	"cuentan cómo", "vivir a un paso", "crónica", "historia de", "perfil",

	// traffic, holidays and weather
	"tráfico", "vehicular", "congestión", "desvío", "navidad", "año nuevo",
	"feriado", "celebración", "misa", "senamhi", "clima", "verano", "playa",
	"calor", "incendio", "bomberos", "sismo", "temblor",
}

var defaultExcludedPathFragments = []string{
	"/deportes/", "/politica/", "/espectaculos/", "/economia/", "/mundo/",
	"/tecnologia/", "/clima/", "/entretenimiento/", "/farandula/", "/horoscopo/",
}

var defaultCrimeSectionFragments = []string{
	"/policiales", "/judiciales", "/sucesos", "/policia", "/inseguridad-ciudadana",
	"/delincuencia/", "/sicariato/", "/asaltos/", "/homicidios/", "/extorsion/", "/robo/",
}

var defaultDistricts = []District{
	{Name: "ANCON", Lat: -11.7731, Lon: -77.1758},
	{Name: "ATE", Lat: -12.0253, Lon: -76.9204},
	{Name: "BARRANCO", Lat: -12.1481, Lon: -77.0211},
	{Name: "BREÑA", Lat: -12.0601, Lon: -77.0450},
	{Name: "CARABAYLLO", Lat: -11.8481, Lon: -77.0286},
	{Name: "CHACLACAYO", Lat: -11.9723, Lon: -76.7694},
	{Name: "CHORRILLOS", Lat: -12.1750, Lon: -77.0175},
	{Name: "CIENEGUILLA", Lat: -12.0911, Lon: -76.7725},
	{Name: "COMAS", Lat: -11.9333, Lon: -77.0433},
	{Name: "EL AGUSTINO", Lat: -12.0461, Lon: -77.0031},
	{Name: "INDEPENDENCIA", Lat: -11.9925, Lon: -77.0494},
	{Name: "JESUS MARIA", Lat: -12.0753, Lon: -77.0450},
	{Name: "LA MOLINA", Lat: -12.0725, Lon: -76.9419},
	{Name: "LA VICTORIA", Lat: -12.0651, Lon: -77.0309},
	{Name: "LINCE", Lat: -12.0847, Lon: -77.0347},
	{Name: "LOS OLIVOS", Lat: -11.9922, Lon: -77.0709},
	{Name: "LURIGANCHO", Aliases: []string{"CHOSICA"}, Lat: -11.9442, Lon: -76.8406},
	{Name: "LURIN", Lat: -12.2742, Lon: -76.8669},
	{Name: "MAGDALENA", Aliases: []string{"MAGDALENA DEL MAR"}, Lat: -12.0914, Lon: -77.0694},
	{Name: "MIRAFLORES", Lat: -12.1211, Lon: -77.0297},
	{Name: "PUEBLO LIBRE", Lat: -12.0736, Lon: -77.0625},
	{Name: "PUENTE PIEDRA", Lat: -11.8661, Lon: -77.0764},
	{Name: "RIMAC", Lat: -12.0294, Lon: -77.0286},
	{Name: "SAN BORJA", Lat: -12.1064, Lon: -76.9933},
	{Name: "SAN ISIDRO", Lat: -12.0950, Lon: -77.0347},
	{Name: "SAN JUAN DE LURIGANCHO", Aliases: []string{"SJL"}, Lat: -11.9764, Lon: -77.0002},
	{Name: "SAN JUAN DE MIRAFLORES", Aliases: []string{"SJM"}, Lat: -12.1497, Lon: -76.9669},
	{Name: "SAN LUIS", Lat: -12.0750, Lon: -76.9958},
	{Name: "SAN MARTIN DE PORRES", Aliases: []string{"SMP"}, Lat: -12.0053, Lon: -77.0583},
	{Name: "SAN MIGUEL", Lat: -12.0775, Lon: -77.0917},
	{Name: "SANTA ANITA", Lat: -12.0439, Lon: -76.9686},
	{Name: "SANTIAGO DE SURCO", Aliases: []string{"SURCO"}, Lat: -12.1456, Lon: -76.9789},
	{Name: "SURQUILLO", Lat: -12.1133, Lon: -77.0225},
	{Name: "VILLA EL SALVADOR", Aliases: []string{"VES"}, Lat: -12.2133, Lon: -76.9367},
	{Name: "VILLA MARIA DEL TRIUNFO", Aliases: []string{"VMT"}, Lat: -12.1603, Lon: -76.9294},
	{Name: "CERCADO DE LIMA", Aliases: []string{"LIMA"}, Lat: -12.0464, Lon: -77.0428},
	{Name: "CALLAO", Lat: -12.0566, Lon: -77.1181},
	{Name: "VENTANILLA", Lat: -11.8753, Lon: -77.1256},
	{Name: "LA PERLA", Lat: -12.0675, Lon: -77.1025},
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}

func cloneDistricts(ds []District) []District {
	out := make([]District, len(ds))
	for i, d := range ds {
		d.Aliases = clone(d.Aliases)
		out[i] = d
	}
	return out
}
