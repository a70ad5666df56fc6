package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nomigo/geosearch/app/config"
	"github.com/nomigo/geosearch/app/requests"
	"github.com/nomigo/geosearch/app/responses"
	"github.com/nomigo/geosearch/internal/geocoder"
	"github.com/nomigo/geosearch/internal/query"
	"github.com/nomigo/geosearch/internal/search"
)

// SearchController serves the forward-search HTTP surface.
type SearchController struct {
	geocoder  *geocoder.Service
	logger    *zap.Logger
	startedAt time.Time
}

func NewSearchController(geo *geocoder.Service, logger *zap.Logger) *SearchController {
	return &SearchController{geocoder: geo, logger: logger, startedAt: time.Now()}
}

// Search handles GET /v1/search.
func (sc *SearchController) Search(c *gin.Context) {
	var req requests.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "INVALID_REQUEST", Message: err.Error()})
		return
	}
	if req.Query == "" && !req.IsStructured() {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "MISSING_QUERY", Message: "q or a structured address field is required"})
		return
	}

	phrases := buildPhrases(req)
	details, err := buildDetails(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "INVALID_REQUEST", Message: err.Error()})
		return
	}

	start := time.Now()
	results, err := sc.geocoder.Search(c.Request.Context(), phrases, details)
	if err != nil {
		sc.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "SEARCH_ERROR", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, responses.SearchResponse{
		Query:            req.Query,
		Results:          toResultDTOs(results),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

// HealthCheck reports liveness.
func (sc *SearchController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:  "healthy",
		Version: "1.0.0",
		Uptime:  time.Since(sc.startedAt).String(),
		Services: map[string]string{
			"geocoder": "healthy",
		},
	})
}

// buildPhrases turns the request into the ordered phrase list the
// analyzer expects: a free-text query is split on commas; a structured
// request is assembled field-by-field in STREET/CITY/COUNTY/STATE/
// POSTCODE/COUNTRY order, each tagged with its restricting PhraseType.
func buildPhrases(req requests.SearchRequest) []query.Phrase {
	if req.Query != "" {
		return query.SplitCommaPhrases(req.Query)
	}

	var out []query.Phrase
	add := func(t query.PhraseType, text string) {
		if text != "" {
			out = append(out, query.Phrase{Type: t, Text: text})
		}
	}
	add(query.PhraseStreet, req.Street)
	add(query.PhraseCity, req.City)
	add(query.PhraseCounty, req.County)
	add(query.PhraseState, req.State)
	add(query.PhrasePostcode, req.PostalCode)
	add(query.PhraseCountry, req.Country)
	return out
}

func buildDetails(req requests.SearchRequest) (*search.Details, error) {
	d := search.DefaultDetails()

	if req.Limit > 0 {
		d.MaxResults = req.Limit
	}
	if req.MinRank > 0 {
		d.MinRank = req.MinRank
	}
	if req.MaxRank > 0 {
		d.MaxRank = req.MaxRank
	}

	if req.CountryCodes != "" {
		d.Countries = make(map[string]bool)
		for _, cc := range strings.Split(req.CountryCodes, ",") {
			cc = strings.ToLower(strings.TrimSpace(cc))
			if cc != "" {
				d.Countries[cc] = true
			}
		}
	}

	if req.ExcludePlaceIDs != "" {
		d.Excluded = make(map[int64]bool)
		for _, idStr := range strings.Split(req.ExcludePlaceIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				continue
			}
			d.Excluded[id] = true
		}
	}

	if req.Viewbox != "" {
		box, err := parseViewbox(req.Viewbox)
		if err != nil {
			return nil, err
		}
		d.Viewbox = &box
		d.BoundedViewbox = req.Bounded
	}

	if req.Layer != "" {
		d.Layers = parseLayers(req.Layer)
	}

	if w := config.C.Similarity; w.JaroWinklerWeight != 0 || w.LevenshteinWeight != 0 {
		d.Similarity = search.SimilarityWeights{JaroWinkler: w.JaroWinklerWeight, Levenshtein: w.LevenshteinWeight}
	}

	return d, nil
}

func parseViewbox(s string) (search.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return search.BBox{}, fmt.Errorf("viewbox must be minLon,minLat,maxLon,maxLat")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return search.BBox{}, fmt.Errorf("invalid viewbox coordinate %q: %w", p, err)
		}
		vals[i] = v
	}
	return search.BBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}, nil
}

func parseLayers(s string) search.Layers {
	var layers search.Layers
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(name) {
		case "address":
			layers |= search.LayerAddress
		case "poi":
			layers |= search.LayerPOI
		case "manmade":
			layers |= search.LayerManmade
		case "railway":
			layers |= search.LayerRailway
		case "natural":
			layers |= search.LayerNatural
		}
	}
	if layers == 0 {
		return search.LayerAll
	}
	return layers
}

func toResultDTOs(results []search.Result) []responses.ResultDTO {
	out := make([]responses.ResultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, responses.ResultDTO{
			PlaceID:     r.PlaceID,
			Lat:         r.Centroid.Lat,
			Lon:         r.Centroid.Lon,
			DisplayName: r.Names["name"],
			Class:       r.Class,
			Type:        r.Type,
			Importance:  r.Importance,
			Accuracy:    r.Accuracy,
			RankAddress: r.RankAddress,
			HouseNumber: r.HouseNumber,
			Postcode:    r.Postcode,
			CountryCode: r.CountryCode,
			BoundingBox: [4]float64{r.BBox.MinLat, r.BBox.MaxLat, r.BBox.MinLon, r.BBox.MaxLon},
			Names:       r.Names,
		})
	}
	return out
}
