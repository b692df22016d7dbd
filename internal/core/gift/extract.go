package gift

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vibe-gift/internal/pkg/common"
)

// ErrMalformedResponse 模型回應中找不到可解析的 JSON
var ErrMalformedResponse = errors.New("response was not valid JSON")

// wrapperKeys 常見的陣列外層鍵，依序檢查
var wrapperKeys = []string{"gifts", "recommendations", "items", "data", "results"}

var fencedBlockRe = regexp.MustCompile("(?i)```[a-z0-9_-]*\\s*([\\s\\S]*?)\\s*```")

// extraction 單一策略的結果：成功時 err 為 nil
type extraction struct {
	value interface{}
	err   error
}

type strategy struct {
	name string
	run  func(text string) extraction
}

var strategies = []strategy{
	{"whole", extractWhole},
	{"fenced", extractFenced},
	{"array", extractBetween('[', ']')},
	{"object", extractBetween('{', '}')},
}

// Extract 從模型文字中取出 JSON 值，依序嘗試各策略，第一個成功者勝出。
// 回傳值尚未保證形狀，交由 Coerce 處理。
func Extract(raw string) (interface{}, error) {
	text := strings.TrimSpace(raw)

	var failures []string
	for _, s := range strategies {
		res := s.run(text)
		if res.err == nil {
			return res.value, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", s.name, res.err))
	}

	return nil, fmt.Errorf("%w (%s)", ErrMalformedResponse, strings.Join(failures, "; "))
}

func extractWhole(text string) extraction {
	return resolveValue(text)
}

func extractFenced(text string) extraction {
	matches := fencedBlockRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return extraction{err: errors.New("no fenced block")}
	}

	var last extraction
	for _, m := range matches {
		last = resolveValue(strings.TrimSpace(m[1]))
		if last.err == nil {
			return last
		}
	}
	return last
}

func extractBetween(open, close byte) func(string) extraction {
	return func(text string) extraction {
		start := strings.IndexByte(text, open)
		end := strings.LastIndexByte(text, close)
		if start == -1 || end == -1 || end <= start {
			return extraction{err: fmt.Errorf("no %c...%c block", open, close)}
		}
		return resolveValue(text[start : end+1])
	}
}

// resolveValue 解析 JSON；物件時優先取外層鍵的陣列，其次取第一個陣列屬性
func resolveValue(text string) extraction {
	var value interface{}
	if err := common.ParseJSON(text, &value); err != nil {
		return extraction{err: err}
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		return extraction{value: value}
	}

	for _, key := range wrapperKeys {
		if arr, ok := obj[key].([]interface{}); ok {
			return extraction{value: arr}
		}
	}
	// 重複鍵時 map 保留最後一個值，須再確認仍為陣列
	if key, ok := common.FirstArrayKey([]byte(text)); ok {
		if arr, ok := obj[key].([]interface{}); ok {
			return extraction{value: arr}
		}
	}
	return extraction{value: obj}
}
