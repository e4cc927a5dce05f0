package cityguide

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"

	"skylane/utils"

	"github.com/julienschmidt/httprouter"
)

// Guide describes what a traveller could do during a layover at one airport.
type Guide struct {
	Name              string   `json:"name"`
	Country           string   `json:"country"`
	MinExploreMinutes int      `json:"minExploreMinutes"`
	Highlights        []string `json:"highlights"`
	Transit           string   `json:"transit"`
	Tip               string   `json:"tip"`
}

//go:embed data/cityguides.json
var guideData []byte

var guides map[string]Guide

func init() {
	if err := json.Unmarshal(guideData, &guides); err != nil {
		log.Fatalf("cityguide: failed to parse embedded dataset: %v", err)
	}
}

// fallback is served for airports we do not know. Lookups never fail.
var fallback = Guide{
	Name:              "Connection airport",
	Country:           "",
	MinExploreMinutes: 180,
	Highlights:        []string{"City centre", "Local food", "Nearby landmarks"},
	Transit:           "Check airport signage for trains or buses into the city.",
	Tip:               "Check visa requirements before leaving the transit area.",
}

// Lookup returns the enrichment record for an airport code. Unknown codes
// get the generic fallback with the code echoed back as the name.
func Lookup(code string) Guide {
	if g, ok := guides[code]; ok {
		return g
	}
	g := fallback
	if code != "" {
		g.Name = code
	}
	return g
}

// Known reports whether we have a curated entry for the airport.
func Known(code string) bool {
	_, ok := guides[code]
	return ok
}

// GetGuide handles GET /api/cityguide/:code.
func GetGuide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"code":  code,
		"known": Known(code),
		"guide": Lookup(code),
	})
}
