package app

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the gateway. SAP credentials are
// environment-sourced and injected from here; they never appear as literals.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	SAPBaseURL  string        `envconfig:"SAP_BASE_URL" required:"true" validate:"url"`
	SAPClient   string        `envconfig:"SAP_CLIENT" default:"324" validate:"numeric"`
	SAPUsername string        `envconfig:"SAP_USERNAME" required:"true" validate:"required"`
	SAPPassword string        `envconfig:"SAP_PASSWORD" required:"true" validate:"required"`
	SAPTimeout  time.Duration `envconfig:"SAP_TIMEOUT" default:"5s"`

	POResource           string `envconfig:"SAP_PO_RESOURCE" default:"ZSB_PO_HEADER_203_2/PO_header"`
	HistoryResource      string `envconfig:"SAP_HISTORY_RESOURCE" default:"ZSB_PO_HISTORY_203/History"`
	HistoryKey           string `envconfig:"SAP_HISTORY_KEY" default:"PoId"`
	GoodsReceiptResource string `envconfig:"SAP_GOODS_RECEIPT_RESOURCE" default:"API_MATERIAL_DOCUMENT_SRV/A_MaterialDocumentItem"`
	GoodsReceiptKey      string `envconfig:"SAP_GOODS_RECEIPT_KEY" default:"PurchaseOrder"`
	InvoiceResource      string `envconfig:"SAP_INVOICE_RESOURCE" default:"API_SUPPLIERINVOICE_PROCESS_SRV/A_SuplrInvcItemPurOrdRef"`
	InvoiceKey           string `envconfig:"SAP_INVOICE_KEY" default:"PurchaseOrder"`

	DisplayLocale     string `envconfig:"DISPLAY_LOCALE" default:"vi"`
	DisplayDateLayout string `envconfig:"DISPLAY_DATE_LAYOUT" default:"02/01/2006"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"60s"`
}

// LoadConfig reads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
