package marketplace

import (
	stdjson "encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"portals_watcher/internal/domain/entity"
)

// Upstream payloads are not uniform: the same field shows up under several
// names and numbers may be encoded as strings. Everything here stays behind
// the Gateway; callers only see entity.Listing and a float floor.

//nolint:gochecknoglobals
var (
	floorKeys    = []string{"floor", "floor_price", "floorPrice", "min_price", "minPrice", "price"}
	envelopeKeys = []string{"data", "result", "collection"}
	listKeys     = []string{"listings", "results", "items", "nfts", "data"}
	idKeys       = []string{"id", "listing_id", "listingId", "nft_id", "nftId", "_id"}
	priceKeys    = []string{"price", "amount", "ask", "price_ton", "priceTon"}
	titleKeys    = []string{"title", "name"}
	urlKeys      = []string{"url", "link", "href"}
)

// parseFloor извлекает floor из объекта верхнего уровня или из конверта
// data/result/collection.
func parseFloor(doc any) (float64, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		// Some endpoints answer with a bare number.
		floor, ok := toFloat(doc)
		return floor, ok && floor >= 0
	}

	if v, found := lookup(obj, floorKeys); found {
		if floor, ok := toFloat(v); ok && floor >= 0 {
			return floor, true
		}
		return 0, false
	}

	for _, key := range envelopeKeys {
		if inner, ok := obj[key].(map[string]any); ok {
			return parseFloor(inner)
		}
	}

	return 0, false
}

// listItems находит массив лотов: голый массив, {"listings": [...]} и
// варианты, в том числе на один уровень вложенности.
func listItems(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range listKeys {
			switch inner := v[key].(type) {
			case []any:
				return inner
			case map[string]any:
				if items := listItems(inner); items != nil {
					return items
				}
			}
		}
	}

	return nil
}

type listingDefaults struct {
	collection  string
	urlTemplate string
}

// parseListing нормализует элемент. Отсутствующие id или цена оставляются
// пустыми: валидность решает вызывающая сторона.
func parseListing(item any, defaults listingDefaults) (entity.Listing, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return entity.Listing{}, false
	}

	var listing entity.Listing

	if v, found := lookup(obj, idKeys); found {
		listing.ID = toID(v)
	}

	if v, found := lookup(obj, priceKeys); found {
		if price, ok := toFloat(v); ok {
			listing.Price = &price
		}
	}

	if v, found := lookup(obj, titleKeys); found {
		listing.Title, _ = v.(string)
	}

	if v, found := lookup(obj, urlKeys); found {
		listing.URL, _ = v.(string)
	}

	listing.Title = strings.TrimSpace(listing.Title)
	if listing.Title == "" {
		listing.Title = defaults.collection + " #" + listing.ID
	}

	listing.URL = strings.TrimSpace(listing.URL)
	if listing.URL == "" {
		listing.URL = strings.ReplaceAll(defaults.urlTemplate, "{id}", url.QueryEscape(listing.ID))
	}

	return listing, true
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)

	switch n := v.(type) {
	case stdjson.Number:
		f, err = n.Float64()
	case interface{ Float64() (float64, error) }:
		f, err = n.Float64()
	case float64:
		f = n
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, false
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

func toID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case stdjson.Number:
		return id.String()
	case fmt.Stringer:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
