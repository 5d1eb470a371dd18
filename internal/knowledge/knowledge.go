// Package knowledge holds the static business-context document and the
// canonical vocabulary of partner (wholesaler) names used to ground every
// natural-language stage of the pipeline.
package knowledge

import (
	_ "embed"
	"os"

	"github.com/rs/zerolog/log"
)

//go:embed context.md
var businessContext string

// Context returns the business-context document. If path is non-empty and
// readable it takes precedence over the embedded copy, so deployments can
// version the document without rebuilding.
func Context(path string) string {
	if path == "" {
		return businessContext
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("business context file unreadable, using embedded copy")
		return businessContext
	}
	return string(data)
}

// wholesalers is the canonical partner list as it appears in the booking
// system exports, truncation artifacts included.
var wholesalers = []string{
	"EXPEDIA, INC.",
	"BOOKING.COM",
	"Namu Travels",
	"Ultimate Jet Vacat",
	"BTIA",
	"Guat2do Travel Exp",
	"PTP MUNDO MAYA",
	"Maya Sky Tour Oper",
	"Adra Hostel Peten",
	"Tikal Go Tours",
	"Expedición Panamun",
	"La Camioneta Tours",
	"Guatemalan Adventu",
	"TESSA Guatemala y",
	"Tikal Adventures",
	"Absolute Belize",
	"GIFTED TRAVEL NETW",
	"NCL (BAHAMAS) LTD",
	"World of Hyatt",
	"VISION TRAVEL DT O",
	"Blue Paralell",
	"ID Travel Group",
	"FEATHER AND FLIP I",
	"Ka'ana",
	"Sabre Wing Travel",
	"The M W Collective",
	"Embark Beyond",
	"Way To Go Tours",
	"Primetour",
	"Hotel Trader",
	"LAKE TAHOE TRAININ",
	"Darah Travel",
	"Anthology Travel",
	"KAANA",
	"CASSIS TRAVEL SERV",
	"FROSCH INTERNATION",
	"Albee Adventures",
}

// Wholesalers returns the static canonical partner names. The pipeline merges
// this list with whatever the store currently holds in the designated
// wholesaler column.
func Wholesalers() []string {
	out := make([]string, len(wholesalers))
	copy(out, wholesalers)
	return out
}
