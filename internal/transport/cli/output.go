package cli

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/vendor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type productOutput struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Price       string `json:"price,omitempty" yaml:"price,omitempty"`
}

type dealOutput struct {
	DealID     string     `json:"deal_id" yaml:"deal_id"`
	TokenValue string     `json:"token_value,omitempty" yaml:"token_value,omitempty"`
	DeepLink   string     `json:"deep_link,omitempty" yaml:"deep_link,omitempty"`
	Status     string     `json:"status,omitempty" yaml:"status,omitempty"`
	Product    string     `json:"product,omitempty" yaml:"product,omitempty"`
	Amount     string     `json:"amount,omitempty" yaml:"amount,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

type scanOutput struct {
	Message                 string `json:"message" yaml:"message"`
	DealID                  string `json:"deal_id,omitempty" yaml:"deal_id,omitempty"`
	Status                  string `json:"status,omitempty" yaml:"status,omitempty"`
	CanGenerateConfirmation bool   `json:"can_generate_confirmation" yaml:"can_generate_confirmation"`
}

type transitionOutput struct {
	DealID     string    `json:"deal_id" yaml:"deal_id"`
	From       string    `json:"from,omitempty" yaml:"from,omitempty"`
	To         string    `json:"to" yaml:"to"`
	Amount     string    `json:"amount,omitempty" yaml:"amount,omitempty"`
	ObservedAt time.Time `json:"observed_at" yaml:"observed_at"`
}

type qrOutput struct {
	Value string `json:"value" yaml:"value"`
	Size  int    `json:"size" yaml:"size"`
}

type printer struct {
	out    io.Writer
	format string
}

// print writes v in the selected format; text is written by the caller.
func (p printer) print(v any, text func(w io.Writer)) error {
	switch p.format {
	case OutputJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json.Encode: %w", err)
		}
	case OutputYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml.Encode: %w", err)
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("yaml.Close: %w", err)
		}
	default:
		text(p.out)
	}

	return nil
}

func newProductOutput(p entity.Product) productOutput {
	return productOutput{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.String(),
	}
}

func newInitiatedOutput(d entity.InitiatedDeal, deepLink string) dealOutput {
	return dealOutput{
		DealID:     d.DealID.String(),
		TokenValue: d.Token.String(),
		DeepLink:   deepLink,
		Status:     d.Status.String(),
		ExpiresAt:  timePtr(d.ExpiresAt),
	}
}

func newStatusOutput(r entity.DealStatusReport) dealOutput {
	return dealOutput{
		DealID:  r.DealID.String(),
		Status:  r.Status.String(),
		Product: r.Product,
		Amount:  r.Amount.String(),
	}
}

func newVendorTokenOutput(t entity.VendorToken) dealOutput {
	return dealOutput{
		DealID:     t.DealID.String(),
		TokenValue: t.Token.String(),
		ExpiresAt:  timePtr(t.ExpiresAt),
	}
}

func newScanOutput(o vendor.Outcome) scanOutput {
	return scanOutput{
		Message:                 o.Message,
		DealID:                  o.DealID.String(),
		Status:                  o.Status.String(),
		CanGenerateConfirmation: o.CanGenerateConfirmation,
	}
}

func newTransitionOutput(t entity.Transition) transitionOutput {
	return transitionOutput{
		DealID:     t.DealID.String(),
		From:       t.From.String(),
		To:         t.To.String(),
		Amount:     t.Report.Amount.String(),
		ObservedAt: t.ObservedAt,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
