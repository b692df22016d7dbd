package gift

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Coerce 將未定型的值轉為推薦列表。
// 非陣列輸入回傳空列表；缺少 name、reasoning、priceRange 的項目直接丟棄。
func Coerce(value interface{}) []Recommendation {
	items, ok := value.([]interface{})
	if !ok {
		return []Recommendation{}
	}

	recs := make([]Recommendation, 0, len(items))
	for i, item := range items {
		if rec, ok := coerceOne(item, strconv.Itoa(i+1)); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

func coerceOne(item interface{}, fallbackID string) (Recommendation, bool) {
	record, ok := item.(map[string]interface{})
	if !ok {
		return Recommendation{}, false
	}

	name := trimmedString(record["name"])
	reasoning := trimmedString(record["reasoning"])
	priceRange := trimmedString(record["priceRange"])
	if name == "" || reasoning == "" || priceRange == "" {
		return Recommendation{}, false
	}

	id := trimmedString(record["id"])
	if n, ok := record["id"].(json.Number); ok {
		id = n.String()
	}
	if id == "" {
		id = fallbackID
	}

	return Recommendation{
		ID:            id,
		Name:          name,
		Image:         trimmedString(record["image"]),
		ImageKeywords: trimmedString(record["imageKeywords"]),
		Reasoning:     reasoning,
		PriceRange:    priceRange,
	}, true
}

func trimmedString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
