package common

import (
	"errors"
	"net/http"
)

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string                 // 錯誤代碼
	Message string                 // 錯誤信息（回傳給呼叫端的 error 欄位）
	Err     error                  // 原始錯誤
	Status  int                    // HTTP 狀態碼
	Fields  map[string]interface{} // 附加欄位（details、model、provider、raw）
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is / errors.As 可以穿透
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithField 附加回應欄位
func (e *CustomError) WithField(key string, value interface{}) *CustomError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// Body 轉換為 JSON 錯誤回應
func (e *CustomError) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(e.Fields)+2)
	for k, v := range e.Fields {
		body[k] = v
	}
	body["error"] = e.Message
	body["code"] = e.Code
	return body
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HasCode 檢查錯誤鏈中是否含有指定代碼
func HasCode(err error, code string) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Code == code
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413

	// 服務器錯誤 (5xx)
	ErrCodeInternalError   = "INTERNAL_ERROR"      // 500
	ErrCodeConfiguration   = "CONFIGURATION_ERROR" // 500
	ErrCodeGatewayTimeout  = "GATEWAY_TIMEOUT"     // 504
	ErrCodeProviderRequest = "PROVIDER_REQUEST_FAILED"
	ErrCodeMalformed       = "MALFORMED_RESPONSE"
	ErrCodeInsufficient    = "INSUFFICIENT_RECOMMENDATIONS"
)

// NewConfigurationError 缺少必要憑證，不重試
func NewConfigurationError(message string) *CustomError {
	return NewError(ErrCodeConfiguration, message, http.StatusInternalServerError, nil)
}

// NewBadRequestError 請求內容無法解析
func NewBadRequestError(message string, err error) *CustomError {
	return NewError(ErrCodeInvalidRequest, message, http.StatusBadRequest, err)
}

// NewProviderRequestError 上游生成服務呼叫失敗
func NewProviderRequestError(message string, err error) *CustomError {
	return NewError(ErrCodeProviderRequest, message, http.StatusBadGateway, err)
}

// NewMalformedResponseError 上游回應中找不到 JSON
func NewMalformedResponseError(message string, err error) *CustomError {
	return NewError(ErrCodeMalformed, message, http.StatusBadGateway, err)
}

// NewInsufficientRecommendationsError 有效推薦數量不足
func NewInsufficientRecommendationsError(message string) *CustomError {
	return NewError(ErrCodeInsufficient, message, http.StatusBadGateway, nil)
}

// 預定義錯誤
var (
	ErrNotFound      = NewError(ErrCodeNotFound, "Not found", http.StatusNotFound, nil)
	ErrInternalError = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)
)
