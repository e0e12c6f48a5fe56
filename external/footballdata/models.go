package footballdata

type matchesEnvelope struct {
	Filters   matchesFilters `json:"filters"`
	ResultSet resultSet      `json:"resultSet"`
	Matches   []matchItem    `json:"matches"`
}

type matchesFilters struct {
	Season   string `json:"season"`
	Matchday string `json:"matchday"`
}

type resultSet struct {
	Count  int `json:"count"`
	Played int `json:"played"`
}

type matchItem struct {
	ID          int64    `json:"id"`
	UTCDate     string   `json:"utcDate"`
	Status      string   `json:"status"`
	Matchday    *int     `json:"matchday"`
	Stage       string   `json:"stage"`
	LastUpdated string   `json:"lastUpdated"`
	HomeTeam    teamItem `json:"homeTeam"`
	AwayTeam    teamItem `json:"awayTeam"`
	Score       score    `json:"score"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
}

type score struct {
	Winner   *string   `json:"winner"`
	Duration string    `json:"duration"`
	FullTime scoreLine `json:"fullTime"`
	HalfTime scoreLine `json:"halfTime"`
}

type scoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// errorEnvelope is the body football-data.org sends with non-2xx responses.
type errorEnvelope struct {
	Message   string `json:"message"`
	ErrorCode int    `json:"errorCode"`
}
