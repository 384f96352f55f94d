package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EquipmentType is the class of plant equipment a reading was taken from.
type EquipmentType string

const (
	EquipmentPump       EquipmentType = "pump"
	EquipmentFinfan     EquipmentType = "finfan"
	EquipmentHeater     EquipmentType = "heater"
	EquipmentCompressor EquipmentType = "compressor"
	EquipmentReactor    EquipmentType = "reactor"
	EquipmentTower      EquipmentType = "tower"
	EquipmentExchanger  EquipmentType = "exchanger"
	EquipmentValve      EquipmentType = "valve"
)

// AllEquipmentTypes lists every supported equipment type.
var AllEquipmentTypes = []EquipmentType{
	EquipmentPump, EquipmentFinfan, EquipmentHeater, EquipmentCompressor,
	EquipmentReactor, EquipmentTower, EquipmentExchanger, EquipmentValve,
}

// ParseEquipmentType normalizes user input into an EquipmentType.
func ParseEquipmentType(s string) (EquipmentType, bool) {
	t := EquipmentType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllEquipmentTypes {
		if t == known {
			return t, true
		}
	}
	return t, false
}

// Parameter is the measured quantity of a reading.
type Parameter string

const (
	ParamPressure    Parameter = "pressure"
	ParamTemperature Parameter = "temperature"
	ParamFlowRate    Parameter = "flow_rate"
	ParamVibration   Parameter = "vibration"
	ParamRPM         Parameter = "rpm"
	ParamCurrent     Parameter = "current"
	ParamVoltage     Parameter = "voltage"
	ParamLevel       Parameter = "level"
)

// AllParameters lists every supported measured parameter.
var AllParameters = []Parameter{
	ParamPressure, ParamTemperature, ParamFlowRate, ParamVibration,
	ParamRPM, ParamCurrent, ParamVoltage, ParamLevel,
}

// ParseParameter normalizes user input into a Parameter.
// "flow rate" and "flow-rate" are accepted as flow_rate.
func ParseParameter(s string) (Parameter, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	p := Parameter(norm)
	for _, known := range AllParameters {
		if p == known {
			return p, true
		}
	}
	return p, false
}

// ReadingStatus is the evaluated health of a reading against its range.
type ReadingStatus string

const (
	StatusNormal   ReadingStatus = "normal"
	StatusWarning  ReadingStatus = "warning"
	StatusCritical ReadingStatus = "critical"
)

// EquipmentReading is a timestamped measurement of one equipment parameter.
// The range bounds are a snapshot taken at creation, so later range changes
// never alter historical readings.
type EquipmentReading struct {
	ID            uuid.UUID     `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	Shift         Shift         `json:"shift"`
	EquipmentID   string        `json:"equipment_id"`
	EquipmentType EquipmentType `json:"equipment_type"`
	Unit          string        `json:"unit"`
	Parameter     Parameter     `json:"parameter"`
	Value         float64       `json:"value"`
	UOM           string        `json:"uom"`
	NormalMin     float64       `json:"normal_min"`
	NormalMax     float64       `json:"normal_max"`
	CriticalMin   float64       `json:"critical_min"`
	CriticalMax   float64       `json:"critical_max"`
	Status        ReadingStatus `json:"status"`
	Deviation     float64       `json:"deviation"`
	Operator      string        `json:"operator,omitempty"`
}

// ReadingFilter narrows a reading query. Zero-valued fields are ignored.
// Limit keeps only the last N matches in insertion order.
type ReadingFilter struct {
	EquipmentID  string
	Parameter    Parameter
	AbnormalOnly bool
	Since        *time.Time
	Limit        int
}
