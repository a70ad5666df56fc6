package responses

// ResultDTO is the JSON shape of one ranked search.Result.
type ResultDTO struct {
	PlaceID     int64             `json:"place_id"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	DisplayName string            `json:"display_name"`
	Class       string            `json:"class"`
	Type        string            `json:"type"`
	Importance  float64           `json:"importance"`
	Accuracy    float64           `json:"accuracy"`
	RankAddress int               `json:"rank_address"`
	HouseNumber string            `json:"housenumber,omitempty"`
	Postcode    string            `json:"postcode,omitempty"`
	CountryCode string            `json:"country_code,omitempty"`
	BoundingBox [4]float64        `json:"boundingbox"`
	Names       map[string]string `json:"names,omitempty"`
}

// SearchResponse wraps a ranked result list plus request-scoped metadata.
type SearchResponse struct {
	Query            string      `json:"query"`
	Results          []ResultDTO `json:"results"`
	ProcessingTimeMs int64       `json:"processing_time_ms"`
}

// ErrorResponse is the uniform error envelope for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthCheckResponse reports service and dependency status.
type HealthCheckResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Uptime   string            `json:"uptime"`
	Services map[string]string `json:"services"`
}
