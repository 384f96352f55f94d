package models

// RangeSource records which registry tier produced an effective range.
type RangeSource string

const (
	RangeSourceOverride RangeSource = "override"
	RangeSourceDefault  RangeSource = "default"
	RangeSourceFallback RangeSource = "fallback"
)

// EquipmentRange is an operating band for one parameter.
// Valid ranges satisfy CriticalMin <= Min < Max <= CriticalMax.
type EquipmentRange struct {
	Min         float64     `json:"min" yaml:"min"`
	Max         float64     `json:"max" yaml:"max"`
	CriticalMin float64     `json:"critical_min" yaml:"critical_min"`
	CriticalMax float64     `json:"critical_max" yaml:"critical_max"`
	UOM         string      `json:"uom" yaml:"uom"`
	Source      RangeSource `json:"source" yaml:"-"`
}

// Valid reports whether the bands are correctly nested and non-degenerate.
func (r EquipmentRange) Valid() bool {
	return r.CriticalMin <= r.Min && r.Min < r.Max && r.Max <= r.CriticalMax
}

// RangeOverride is an instance-specific range keyed by equipment ID and parameter.
type RangeOverride struct {
	EquipmentID string         `json:"equipment_id"`
	Parameter   Parameter      `json:"parameter"`
	Range       EquipmentRange `json:"range"`
}

// TypeParam keys the default range table.
type TypeParam struct {
	Type      EquipmentType
	Parameter Parameter
}

// FallbackRange is used when neither an override nor a type default exists.
func FallbackRange() EquipmentRange {
	return EquipmentRange{
		Min:         0,
		Max:         100,
		CriticalMin: 0,
		CriticalMax: 150,
		UOM:         "units",
		Source:      RangeSourceFallback,
	}
}

// DefaultRanges returns a fresh copy of the built-in operating ranges.
// Only the parameters relevant to each equipment type are populated.
func DefaultRanges() map[TypeParam]EquipmentRange {
	rng := func(min, max, critMin, critMax float64, uom string) EquipmentRange {
		return EquipmentRange{Min: min, Max: max, CriticalMin: critMin, CriticalMax: critMax, UOM: uom, Source: RangeSourceDefault}
	}
	return map[TypeParam]EquipmentRange{
		{EquipmentPump, ParamPressure}:    rng(50, 150, 20, 200, "psi"),
		{EquipmentPump, ParamFlowRate}:    rng(100, 500, 50, 600, "gpm"),
		{EquipmentPump, ParamTemperature}: rng(60, 180, 40, 220, "°F"),
		{EquipmentPump, ParamVibration}:   rng(0, 0.3, 0, 0.5, "in/s"),
		{EquipmentPump, ParamCurrent}:     rng(10, 50, 5, 60, "A"),

		{EquipmentFinfan, ParamTemperature}: rng(80, 200, 60, 250, "°F"),
		{EquipmentFinfan, ParamVibration}:   rng(0, 0.25, 0, 0.4, "in/s"),
		{EquipmentFinfan, ParamRPM}:         rng(200, 400, 100, 450, "rpm"),
		{EquipmentFinfan, ParamCurrent}:     rng(15, 60, 10, 75, "A"),

		{EquipmentHeater, ParamTemperature}: rng(400, 800, 300, 900, "°F"),
		{EquipmentHeater, ParamPressure}:    rng(20, 80, 10, 100, "psi"),
		{EquipmentHeater, ParamFlowRate}:    rng(200, 800, 100, 1000, "gpm"),

		{EquipmentCompressor, ParamPressure}:    rng(100, 300, 50, 350, "psi"),
		{EquipmentCompressor, ParamTemperature}: rng(100, 250, 80, 300, "°F"),
		{EquipmentCompressor, ParamVibration}:   rng(0, 0.2, 0, 0.35, "in/s"),
		{EquipmentCompressor, ParamRPM}:         rng(3000, 3600, 2500, 3800, "rpm"),
		{EquipmentCompressor, ParamCurrent}:     rng(50, 200, 30, 240, "A"),
		{EquipmentCompressor, ParamVoltage}:     rng(440, 500, 400, 520, "V"),

		{EquipmentReactor, ParamPressure}:    rng(200, 400, 150, 450, "psi"),
		{EquipmentReactor, ParamTemperature}: rng(300, 700, 250, 800, "°F"),
		{EquipmentReactor, ParamLevel}:       rng(30, 80, 15, 90, "%"),

		{EquipmentTower, ParamPressure}:    rng(10, 50, 5, 65, "psi"),
		{EquipmentTower, ParamTemperature}: rng(200, 400, 150, 450, "°F"),
		{EquipmentTower, ParamLevel}:       rng(40, 70, 20, 85, "%"),

		{EquipmentExchanger, ParamTemperature}: rng(100, 350, 80, 400, "°F"),
		{EquipmentExchanger, ParamPressure}:    rng(50, 200, 30, 250, "psi"),
		{EquipmentExchanger, ParamFlowRate}:    rng(150, 600, 100, 700, "gpm"),

		{EquipmentValve, ParamPressure}:    rng(20, 250, 0, 300, "psi"),
		{EquipmentValve, ParamTemperature}: rng(50, 400, 30, 450, "°F"),
	}
}
