package search

import "github.com/nomigo/geosearch/internal/catalog"

// rowToResult converts one catalog row into a Result. Row-to-result
// conversion is expected to always succeed for a well-formed catalog row
// (§7 "assert-level checks... treated as programmer errors"); a row
// missing place_id is a programmer error here, not a CatalogError.
func rowToResult(row catalog.Row) Result {
	r := Result{}
	r.PlaceID = asInt64(row["place_id"])
	r.RankAddress = int(asInt64(row["rank_address"]))
	r.RankSearch = int(asInt64(row["rank_search"]))
	r.Importance, _ = row["importance"].(float64)
	r.Class, _ = row["class"].(string)
	r.Type, _ = row["type"].(string)
	r.HouseNumber, _ = row["housenumber"].(string)
	r.Postcode, _ = row["postcode"].(string)
	r.CountryCode, _ = row["country_code"].(string)
	if lon, ok := row["lon"].(float64); ok {
		r.Centroid.Lon = lon
	}
	if lat, ok := row["lat"].(float64); ok {
		r.Centroid.Lat = lat
	}
	r.BBox = BBox{
		MinLon: asFloat(row["bbox_min_lon"]),
		MinLat: asFloat(row["bbox_min_lat"]),
		MaxLon: asFloat(row["bbox_max_lon"]),
		MaxLat: asFloat(row["bbox_max_lat"]),
	}
	if name, ok := row["name"].(string); ok {
		r.Names = map[string]string{"name": name}
	}
	return r
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
