package dto

type StoreResponse struct {
	Code       string            `json:"code"`
	Brand      string            `json:"brand"`
	Number     int               `json:"number"`
	Title      string            `json:"title"`
	Address    string            `json:"address"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Hours      map[string]string `json:"hours,omitempty"`
	HoursToday string            `json:"hours_today"`
	OpenNow    bool              `json:"open_now"`
	DistanceKm *float64          `json:"distance_km,omitempty"`
}

type StoreSummary struct {
	Code   string  `json:"code"`
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

type StorePageResponse struct {
	Brand    string         `json:"brand"`
	Code     string         `json:"code"`
	Page     int            `json:"page"`
	Pages    int            `json:"pages"`
	From     int            `json:"from"`
	To       int            `json:"to"`
	PrevPage *int           `json:"prev_page,omitempty"`
	NextPage *int           `json:"next_page,omitempty"`
	Stores   []StoreSummary `json:"stores"`
}
