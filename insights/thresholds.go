package insights

// Default thresholds. Concentration values are percentages of the column
// total held by the first row; order values are currency amounts.
const (
	DefaultCriticalConcentration = 80.0
	DefaultModerateConcentration = 50.0
	DefaultPremiumOrderValue     = 1000.0
	DefaultStrongOrderValue      = 500.0
	DefaultGrowthOrderValue      = 100.0
	DefaultLowCustomerBase       = 5
)

// Thresholds holds the cut-offs used while deriving insights. Every
// comparison is strict: a share of exactly 80% is moderate, not critical.
type Thresholds struct {
	CriticalConcentration float64 `mapstructure:"critical_concentration" yaml:"critical_concentration"`
	ModerateConcentration float64 `mapstructure:"moderate_concentration" yaml:"moderate_concentration"`
	PremiumOrderValue     float64 `mapstructure:"premium_order_value" yaml:"premium_order_value"`
	StrongOrderValue      float64 `mapstructure:"strong_order_value" yaml:"strong_order_value"`
	GrowthOrderValue      float64 `mapstructure:"growth_order_value" yaml:"growth_order_value"`
	LowCustomerBase       int     `mapstructure:"low_customer_base" yaml:"low_customer_base"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalConcentration: DefaultCriticalConcentration,
		ModerateConcentration: DefaultModerateConcentration,
		PremiumOrderValue:     DefaultPremiumOrderValue,
		StrongOrderValue:      DefaultStrongOrderValue,
		GrowthOrderValue:      DefaultGrowthOrderValue,
		LowCustomerBase:       DefaultLowCustomerBase,
	}
}
