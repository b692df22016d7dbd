package gift

import (
	"fmt"

	"vibe-gift/internal/pkg/common"
)

// RecipientProfile 精靈收集的收禮人資訊；所有值皆為自由字串
type RecipientProfile struct {
	AgeGroup     string `json:"ageGroup"`
	Gender       string `json:"gender"`
	Relationship string `json:"relationship"`
	Occasion     string `json:"occasion"`
	Lifestyle    string `json:"lifestyle"`
	Budget       string `json:"budget"`
	Aesthetic    string `json:"aesthetic,omitempty"`
	Risk         string `json:"risk,omitempty"`
}

// Recommendation 單一禮物推薦
type Recommendation struct {
	ID            string `json:"id"`
	Name          string `json:"name" binding:"required"`
	Image         string `json:"image"`
	ImageKeywords string `json:"imageKeywords,omitempty"`
	Reasoning     string `json:"reasoning"`
	PriceRange    string `json:"priceRange"`
}

// ParseProfile 解析請求內容。
// 無法解析時回 400；合法但非物件的 JSON 視為空白資料。
// 未知欄位忽略，非字串純量轉為字串，null 視為未提供。
func ParseProfile(body []byte) (RecipientProfile, error) {
	var value interface{}
	if err := common.ParseJSONBytes(body, &value); err != nil {
		return RecipientProfile{}, common.NewBadRequestError("Invalid JSON body", err)
	}
	raw, _ := value.(map[string]interface{})

	field := func(key string) string {
		return stringify(raw[key])
	}

	return RecipientProfile{
		AgeGroup:     field("ageGroup"),
		Gender:       field("gender"),
		Relationship: field("relationship"),
		Occasion:     field("occasion"),
		Lifestyle:    field("lifestyle"),
		Budget:       field("budget"),
		Aesthetic:    field("aesthetic"),
		Risk:         field("risk"),
	}, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		s, err := common.ToJSON(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return s
	}
}
