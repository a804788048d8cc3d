package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "salesreport/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	InputPaths    []string       `yaml:"input_paths" envconfig:"INPUT_PATHS" validate:"required,min=1,dive,required"`
	Reports       []ReportConfig `yaml:"reports" ignored:"true" validate:"required,min=1,dive"`
	CurrentYear   int            `yaml:"current_year" envconfig:"CURRENT_YEAR" validate:"min=0"`
	BaseYear      int            `yaml:"base_year" envconfig:"BASE_YEAR" validate:"min=0"`
	ImageDir      string         `yaml:"image_dir" envconfig:"IMAGE_DIR"`
	ExportPath    string         `yaml:"export_path" envconfig:"EXPORT_PATH"`
	MetricsPath   string         `yaml:"metrics_path" envconfig:"METRICS_PATH"`
	IngestWorkers int            `yaml:"ingest_workers" envconfig:"INGEST_WORKERS" validate:"min=1,max=32"`
	Sheet         string         `yaml:"sheet" envconfig:"SHEET"`
	DateLayouts   []string       `yaml:"date_layouts" envconfig:"DATE_LAYOUTS" validate:"required,min=1,dive,required"`
	Columns       ColumnConfig   `yaml:"columns" envconfig:"COLUMNS"`
	Ranking       RankingConfig  `yaml:"ranking" envconfig:"RANKING"`
	Domain        DomainConfig   `yaml:"domain" envconfig:"DOMAIN"`
	Thresholds    Thresholds     `yaml:"thresholds" envconfig:"THRESHOLDS"`
	Logging       LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Tracing       TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// ReportConfig selects one report variant and where it is written.
type ReportConfig struct {
	Variant    string `yaml:"variant" validate:"required,oneof=summary yoy deep"`
	OutputPath string `yaml:"output_path" validate:"required"`
	HTMLPath   string `yaml:"html_path"`
}

// ColumnConfig holds the exact header labels of the source export.
type ColumnConfig struct {
	Date          string `yaml:"date" envconfig:"DATE" validate:"required"`
	Customer      string `yaml:"customer" envconfig:"CUSTOMER" validate:"required"`
	Item          string `yaml:"item" envconfig:"ITEM" validate:"required"`
	CustomerGroup string `yaml:"customer_group" envconfig:"CUSTOMER_GROUP" validate:"required"`
	Amount        string `yaml:"amount" envconfig:"AMOUNT" validate:"required"`
	Quantity      string `yaml:"quantity" envconfig:"QUANTITY" validate:"required"`
}

// Required returns the column labels every source file must carry.
func (c ColumnConfig) Required() []string {
	return []string{c.Date, c.Customer, c.Item, c.CustomerGroup, c.Amount, c.Quantity}
}

// RankingConfig holds top-N truncation per report section.
type RankingConfig struct {
	TopCustomers    int `yaml:"top_customers" envconfig:"TOP_CUSTOMERS" validate:"min=1"`
	TopBrands       int `yaml:"top_brands" envconfig:"TOP_BRANDS" validate:"min=1"`
	DetailBrands    int `yaml:"detail_brands" envconfig:"DETAIL_BRANDS" validate:"min=1"`
	DetailCustomers int `yaml:"detail_customers" envconfig:"DETAIL_CUSTOMERS" validate:"min=1"`
	TopItems        int `yaml:"top_items" envconfig:"TOP_ITEMS" validate:"min=1"`
	YoYDetailBrands int `yaml:"yoy_detail_brands" envconfig:"YOY_DETAIL_BRANDS" validate:"min=1"`
	ExportCustomers int `yaml:"export_customers" envconfig:"EXPORT_CUSTOMERS" validate:"min=1"`
	MixBrands       int `yaml:"mix_brands" envconfig:"MIX_BRANDS" validate:"min=1"`
}

// DomainConfig holds the dataset-specific matching rules used by the normalizer.
type DomainConfig struct {
	CustomerAliases   []string `yaml:"customer_aliases" envconfig:"CUSTOMER_ALIASES"`
	CanonicalCustomer string   `yaml:"canonical_customer" envconfig:"CANONICAL_CUSTOMER" validate:"required_with=CustomerAliases"`
	ExportMarker      string   `yaml:"export_marker" envconfig:"EXPORT_MARKER" validate:"required"`
	DummyMarkers      []string `yaml:"dummy_markers" envconfig:"DUMMY_MARKERS" validate:"dive,required"`
	UnknownLabel      string   `yaml:"unknown_label" envconfig:"UNKNOWN_LABEL" validate:"required"`
	GroupDefault      string   `yaml:"group_default" envconfig:"GROUP_DEFAULT"`
}

// Thresholds drive insight classification. Percentages are on a 0-100 scale.
type Thresholds struct {
	HighGrowth           float64 `yaml:"high_growth" envconfig:"HIGH_GROWTH"`
	Decline              float64 `yaml:"decline" envconfig:"DECLINE" validate:"ltefield=HighGrowth"`
	ExportLed            float64 `yaml:"export_led" envconfig:"EXPORT_LED" validate:"min=0,max=100"`
	DomesticConcentrated float64 `yaml:"domestic_concentrated" envconfig:"DOMESTIC_CONCENTRATED" validate:"min=0,max=100,ltefield=ExportLed"`
	CashCow              float64 `yaml:"cash_cow" envconfig:"CASH_COW" validate:"min=0"`
	ItemSurge            float64 `yaml:"item_surge" envconfig:"ITEM_SURGE"`
	ItemDecline          float64 `yaml:"item_decline" envconfig:"ITEM_DECLINE" validate:"ltefield=ItemSurge"`
	AccountGrowth        float64 `yaml:"account_growth" envconfig:"ACCOUNT_GROWTH"`
	AccountDecline       float64 `yaml:"account_decline" envconfig:"ACCOUNT_DECLINE" validate:"ltefield=AccountGrowth"`
	ExportNarrative      float64 `yaml:"export_narrative" envconfig:"EXPORT_NARRATIVE" validate:"min=0,max=100"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TracingConfig selects where run spans are exported.
type TracingConfig struct {
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=none stdout file"`
	FilePath    string  `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_if=Exporter file"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		IngestWorkers: 1,
		DateLayouts:   append([]string(nil), DefaultDateLayouts...),
		Columns: ColumnConfig{
			Date:          DefaultDateColumn,
			Customer:      DefaultCustomerColumn,
			Item:          DefaultItemColumn,
			CustomerGroup: DefaultCustomerGroupColumn,
			Amount:        DefaultAmountColumn,
			Quantity:      DefaultQuantityColumn,
		},
		Ranking: RankingConfig{
			TopCustomers:    10,
			TopBrands:       10,
			DetailBrands:    5,
			DetailCustomers: 5,
			TopItems:        5,
			YoYDetailBrands: 3,
			ExportCustomers: 3,
			MixBrands:       3,
		},
		Domain: DomainConfig{
			CustomerAliases:   append([]string(nil), DefaultCustomerAliases...),
			CanonicalCustomer: DefaultCanonicalCustomer,
			ExportMarker:      DefaultExportMarker,
			DummyMarkers:      append([]string(nil), DefaultDummyMarkers...),
			UnknownLabel:      DefaultUnknownLabel,
			GroupDefault:      DefaultUnknownLabel,
		},
		Thresholds: Thresholds{
			HighGrowth:           10,
			Decline:              -10,
			ExportLed:            60,
			DomesticConcentrated: 20,
			CashCow:              3_000_000_000,
			ItemSurge:            50,
			ItemDecline:          -20,
			AccountGrowth:        20,
			AccountDecline:       -10,
			ExportNarrative:      50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			FilePath:    DefaultTraceFile,
			SampleRatio: 1.0,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or the
// first default location found when path is empty) and SALES_* environment
// variables, in increasing order of precedence. The result is not validated
// so callers can apply command-line overrides first.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", path), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	v := validator.New()
	if err := v.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return apperrors.NewConfigError("config validation failed: "+strings.Join(fields, ", "), err)
		}
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.CurrentYear != 0 && c.BaseYear != 0 && c.BaseYear >= c.CurrentYear {
		return apperrors.NewConfigError(
			fmt.Sprintf("base_year %d must be before current_year %d", c.BaseYear, c.CurrentYear), nil)
	}

	return nil
}
