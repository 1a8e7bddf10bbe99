package footballdata

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// matchesResponse decodes lazily so only the requested number of entries is validated.
type matchesResponse struct {
	Matches *[]jsoniter.RawMessage `json:"matches"`
}

type matchResponse struct {
	UTCDate     *string              `json:"utcDate"`
	HomeTeam    *teamResponse        `json:"homeTeam"`
	AwayTeam    *teamResponse        `json:"awayTeam"`
	Competition *competitionResponse `json:"competition"`
}

type teamResponse struct {
	ShortName *string `json:"shortName"`
	Crest     *string `json:"crest"`
}

type competitionResponse struct {
	Name *string `json:"name"`
}
