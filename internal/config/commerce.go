package config

import "time"

type Commerce struct {
	// BaseURL includes the API prefix, e.g. http://localhost:8000/api/v1.
	BaseURL    string        `env:"COMMERCE_BASE_URL" envDefault:"http://localhost:8000/api/v1"`
	Timeout    time.Duration `env:"COMMERCE_TIMEOUT" envDefault:"10s"`
	KioskID    string        `env:"KIOSK_ID" envDefault:"UNKNOWN_KIOSK"`
	DistrictID string        `env:"DISTRICT_ID" envDefault:"UNKNOWN_DISTRICT"`
	// MobileBaseURL is the public origin the phone opens from the kiosk QR.
	MobileBaseURL string `env:"MOBILE_BASE_URL" envDefault:"http://localhost:5173"`
	// QRLevel is the error correction level: L, M, Q or H.
	QRLevel string `env:"QR_LEVEL" envDefault:"H"`
	// CatalogTTL caches the product list, 0 disables caching.
	CatalogTTL time.Duration `env:"CATALOG_TTL" envDefault:"30s"`
	// VendorSecret signs service tokens for vendor calls. Empty disables auth.
	VendorSecret string        `env:"VENDOR_JWT_SECRET" json:"-"`
	VendorID     string        `env:"VENDOR_ID" envDefault:"kiosk-vendor"`
	VendorTTL    time.Duration `env:"VENDOR_JWT_TTL" envDefault:"5m"`
	// ScanWindow caps how long an in-flight scan holds its guard key.
	ScanWindow time.Duration `env:"SCAN_WINDOW" envDefault:"5s"`
}
