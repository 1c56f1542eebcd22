package services

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Airport is an autocomplete entry. Only the code is stored on shifts.
type Airport struct {
	Code string
	Name string
}

func (a Airport) Label() string {
	if a.Name == "" {
		return a.Code
	}
	return a.Code + " - " + a.Name
}

// DefaultAirports are offered when the config lists none.
var DefaultAirports = []Airport{
	{"IRFD", "Greater Rockford"},
	{"IMLR", "Mellor International"},
	{"IPPH", "Perth International"},
	{"ITKO", "Tokyo International"},
	{"IZOL", "Izolirani International"},
	{"IGRV", "Grindavik Airport"},
	{"IBTH", "Saint Barthelemy"},
	{"ISAU", "Sauthemptona Airport"},
	{"ILAR", "Larnaca International"},
	{"IPAP", "Paphos International"},
	{"IHEN", "Henstridge Airfield"},
	{"IBLT", "Boltic Airfield"},
}

type airportSource []Airport

func (s airportSource) Len() int {
	return len(s)
}

func (s airportSource) String(i int) string {
	return s[i].Code + " " + s[i].Name
}

// Airports suggests airports for the shift start autocomplete.
type Airports struct {
	list airportSource
}

// NewAirports parses "CODE" or "CODE Name" entries.
func NewAirports(entries []string) *Airports {
	if len(entries) == 0 {
		return &Airports{list: DefaultAirports}
	}
	list := make(airportSource, 0, len(entries))
	for _, e := range entries {
		code, name, _ := strings.Cut(strings.TrimSpace(e), " ")
		if code == "" {
			continue
		}
		list = append(list, Airport{Code: strings.ToUpper(code), Name: strings.TrimSpace(name)})
	}
	return &Airports{list: list}
}

// Suggest returns at most limit airports best matching query, in list
// order when the query is blank.
func (a *Airports) Suggest(query string, limit int) []Airport {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]Airport(nil), a.list[:min(limit, len(a.list))]...)
	}

	matches := fuzzy.FindFrom(query, a.list)
	out := make([]Airport, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, a.list[m.Index])
	}
	return out
}
