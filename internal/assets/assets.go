// Package assets is the static registry of everything the dashboard tracks.
package assets

type ID string

const (
	Gold    ID = "gold"
	UsdVnd  ID = "usd_vnd"
	Bitcoin ID = "bitcoin"
	Vn30    ID = "vn30"
	Land    ID = "land"
)

type Asset struct {
	ID   ID
	Name string
	Unit string

	// Required assets gate publication health: a run that cannot produce
	// them at all (not even via fallback tiers) is severely degraded.
	Required bool
}

var All = []Asset{
	{ID: Gold, Name: "SJC Gold", Unit: "VND/tael", Required: true},
	{ID: UsdVnd, Name: "USD/VND Black Market", Unit: "VND", Required: true},
	{ID: Bitcoin, Name: "Bitcoin", Unit: "VND", Required: true},
	{ID: Vn30, Name: "VN30 Index", Unit: "points", Required: true},
	// The land benchmark is a manually curated estimate, never scraped live.
	{ID: Land, Name: "Land (Hong Bang, D11, HCMC)", Unit: "VND/m2", Required: false},
}

var byID map[ID]Asset

func init() {
	byID = make(map[ID]Asset, len(All))
	for _, a := range All {
		byID[a.ID] = a
	}
}

func ByID(id ID) (Asset, bool) {
	a, ok := byID[id]
	return a, ok
}

// RequiredIDs returns the assets whose absence makes a payload unsafe.
func RequiredIDs() []ID {
	var out []ID
	for _, a := range All {
		if a.Required {
			out = append(out, a.ID)
		}
	}
	return out
}
