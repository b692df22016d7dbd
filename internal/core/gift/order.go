package gift

import (
	"time"

	"vibe-gift/internal/pkg/common"
)

const deliveryDateLayout = "2006-01-02"

// DeliveryDetails 配送資訊
type DeliveryDetails struct {
	DeliveryDate string `json:"deliveryDate" binding:"required"`
	DeliveryTime string `json:"deliveryTime" binding:"required,oneof=morning afternoon evening"`
	Address      string `json:"address" binding:"required"`
	PersonalNote string `json:"personalNote,omitempty"`
}

// OrderRequest 下單請求
type OrderRequest struct {
	Gift     Recommendation  `json:"gift" binding:"required"`
	Delivery DeliveryDetails `json:"delivery" binding:"required"`
}

// Order 模擬的訂單確認；不保存、不付款
type Order struct {
	OrderID       string          `json:"orderId"`
	Status        string          `json:"status"`
	Gift          Recommendation  `json:"gift"`
	Delivery      DeliveryDetails `json:"delivery"`
	TimeSlotLabel string          `json:"timeSlotLabel"`
	PlacedAt      time.Time       `json:"placedAt"`
}

// PlaceOrder 驗證配送日期並產生確認單；日期不可早於 now 當天
func PlaceOrder(req OrderRequest, now time.Time) (*Order, error) {
	date, err := time.ParseInLocation(deliveryDateLayout, req.Delivery.DeliveryDate, now.Location())
	if err != nil {
		return nil, common.NewBadRequestError("Invalid delivery date", err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return nil, common.NewBadRequestError("Delivery date must not be in the past", nil)
	}

	return &Order{
		OrderID:       common.GenerateUUID(),
		Status:        "confirmed",
		Gift:          req.Gift,
		Delivery:      req.Delivery,
		TimeSlotLabel: label(timeSlotLabels, req.Delivery.DeliveryTime, req.Delivery.DeliveryTime),
		PlacedAt:      now.UTC(),
	}, nil
}
