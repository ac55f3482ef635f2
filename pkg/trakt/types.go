// Package trakt provides a client for the Trakt API v2.
package trakt

// IDs holds the identifiers Trakt knows an item by.
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
}

// Show is a TV show from the Trakt catalog.
type Show struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	IDs      IDs    `json:"ids"`
	Overview string `json:"overview"`
}

// Movie is a movie from the Trakt catalog.
type Movie struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	IDs      IDs    `json:"ids"`
	Overview string `json:"overview"`
}

// showSearchResult is one entry of a /search/show response.
type showSearchResult struct {
	Type  string  `json:"type"`
	Score float64 `json:"score"`
	Show  Show    `json:"show"`
}

// movieSearchResult is one entry of a /search/movie response.
type movieSearchResult struct {
	Type  string  `json:"type"`
	Score float64 `json:"score"`
	Movie Movie   `json:"movie"`
}

// Token is an OAuth token pair returned by the Trakt token endpoints.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	CreatedAt    int64  `json:"created_at"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// DeviceCode is the response of /oauth/device/code. The operator opens
// VerificationURL and enters UserCode; the program polls with DeviceCode.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// HistoryEpisode is one episode inside a /sync/history request.
type HistoryEpisode struct {
	Number    int    `json:"number"`
	WatchedAt string `json:"watched_at,omitempty"` // RFC 3339, UTC
}

// HistorySeason groups episodes of one season in a /sync/history request.
type HistorySeason struct {
	Number   int              `json:"number"`
	Episodes []HistoryEpisode `json:"episodes"`
}

// HistoryShow is one show entry in a /sync/history request.
type HistoryShow struct {
	IDs     IDs             `json:"ids"`
	Seasons []HistorySeason `json:"seasons"`
}

// HistoryMovie is one movie entry in a /sync/history request.
type HistoryMovie struct {
	IDs       IDs    `json:"ids"`
	WatchedAt string `json:"watched_at,omitempty"` // RFC 3339, UTC
}

// historyRequest is the body of POST /sync/history.
type historyRequest struct {
	Shows  []HistoryShow  `json:"shows,omitempty"`
	Movies []HistoryMovie `json:"movies,omitempty"`
}

// watchlistRequest is the body of POST /sync/watchlist.
type watchlistRequest struct {
	Movies []HistoryMovie `json:"movies,omitempty"`
}

// SyncResult reports what a /sync endpoint accepted and rejected.
type SyncResult struct {
	Added struct {
		Movies   int `json:"movies"`
		Episodes int `json:"episodes"`
	} `json:"added"`
	NotFound struct {
		Shows  []HistoryShow  `json:"shows"`
		Movies []HistoryMovie `json:"movies"`
	} `json:"not_found"`
}

// tokenErrorResponse is the body Trakt returns on OAuth errors.
type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
