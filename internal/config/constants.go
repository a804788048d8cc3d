package config

// Application constants
const (
	AppName    = "salesreport"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment overrides, e.g. SALES_LOGGING_LEVEL.
	EnvPrefix = "SALES"

	DefaultConfigFile = "salesreport.yaml"
	DefaultLogFile    = "logs/salesreport.log"
	DefaultTraceFile  = "logs/salesreport.trace.json"
)

// Source column labels used by the ERP sales export.
const (
	DefaultDateColumn          = "일자"
	DefaultCustomerColumn      = "거래처명"
	DefaultItemColumn          = "품목명[규격]"
	DefaultCustomerGroupColumn = "거래처그룹1명"
	DefaultAmountColumn        = "금액"
	DefaultQuantityColumn      = "수량"
)

// Domain defaults for the export customer consolidation and row markers.
const (
	DefaultCanonicalCustomer = "직수출(러시아)"
	DefaultExportMarker      = "수출"
	DefaultUnknownLabel      = "Unknown"
)

var (
	DefaultCustomerAliases = []string{"직수출", "스티물 주식회사", "스티물글로벌 주식회사", "스티물", "스티물글로벌"}
	DefaultDummyMarkers    = []string{"월마감", "배송비"}

	// DefaultDateLayouts are tried in order per source file.
	DefaultDateLayouts = []string{"2006/1/2", "20060102"}
)
