// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Product Товар каталога
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	VendorID    string `json:"vendor_id,omitempty"`
}

// CreateDealViewRequest Открытие модального окна сделки
type CreateDealViewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// DealView Снимок окна сделки
type DealView struct {
	ID      string  `json:"id"`
	Phase   string  `json:"phase"`
	Product Product `json:"product"`

	// DealID Пусто, пока сделка не создана
	DealID     string     `json:"deal_id,omitempty"`
	TokenValue string     `json:"token_value,omitempty"`
	DeepLink   string     `json:"deep_link,omitempty"`
	Status     string     `json:"status,omitempty"`
	Amount     string     `json:"amount,omitempty"`
	Message    string     `json:"message,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Polling    bool       `json:"polling"`
}

// ScanRequest Токен, введенный вендором
type ScanRequest struct {
	TokenValue string `json:"token_value"`
}

// ScanResponse Результат скана
type ScanResponse struct {
	Message                 string `json:"message"`
	DealID                  string `json:"deal_id,omitempty"`
	Status                  string `json:"status,omitempty"`
	CanGenerateConfirmation bool   `json:"can_generate_confirmation"`
}

// VendorToken Токен подтверждения и его QR (PNG, base64)
type VendorToken struct {
	DealID     string     `json:"deal_id"`
	TokenValue string     `json:"token_value"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	QRPNG      []byte     `json:"qr_png"`
}

// Transition Запись журнала переходов
type Transition struct {
	DealID     string    `json:"deal_id"`
	ProductID  string    `json:"product_id,omitempty"`
	Product    string    `json:"product,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	ObservedAt time.Time `json:"observed_at"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
