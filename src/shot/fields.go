package shot

import "strings"

// Field describes one plottable metric of a shot sample.
type Field struct {
	Key      string // dotted path, also the stable identifier in sessions
	Name     string
	Category string
	Unit     string
	// Base links a setpoint to the measured field it targets ("" when none).
	Base string
}

// Path returns the key split into accessor path segments.
func (f Field) Path() []string { return ParsePath(f.Key) }

// Label is the checkbox/legend text: name plus unit when known.
func (f Field) Label() string {
	if f.Unit == "" {
		return f.Name
	}
	return f.Name + " (" + f.Unit + ")"
}

// Fields is the catalog of known metrics, in display order.
var Fields = []Field{
	{Key: "shot.pressure", Name: "Pressure", Category: "Shot", Unit: "bar"},
	{Key: "shot.flow", Name: "Flow", Category: "Shot", Unit: "ml/s"},
	{Key: "shot.weight", Name: "Weight", Category: "Shot", Unit: "g"},
	{Key: "shot.gravimetric_flow", Name: "Gravimetric Flow", Category: "Shot", Unit: "g/s"},

	{Key: "shot.setpoints.pressure", Name: "Pressure Setpoint", Category: "Setpoints", Unit: "bar", Base: "shot.pressure"},
	{Key: "shot.setpoints.flow", Name: "Flow Setpoint", Category: "Setpoints", Unit: "ml/s", Base: "shot.flow"},
	{Key: "shot.setpoints.power", Name: "Power Setpoint", Category: "Setpoints", Unit: "%", Base: "sensors.motor_power"},

	{Key: "sensors.motor_speed", Name: "Motor Speed", Category: "Motor", Unit: "rpm"},
	{Key: "sensors.motor_power", Name: "Motor Power", Category: "Motor", Unit: "%"},
	{Key: "sensors.motor_current", Name: "Motor Current", Category: "Motor", Unit: "A"},
	{Key: "sensors.motor_temp", Name: "Motor Temp", Category: "Motor", Unit: "°C"},
	{Key: "sensors.motor_position", Name: "Motor Position", Category: "Motor", Unit: "mm"},

	{Key: "sensors.external_1", Name: "External Temp 1", Category: "Temperature", Unit: "°C"},
	{Key: "sensors.external_2", Name: "External Temp 2", Category: "Temperature", Unit: "°C"},
	{Key: "sensors.bar_up", Name: "Bar Up Temp", Category: "Temperature", Unit: "°C"},
	{Key: "sensors.bar_mid_up", Name: "Bar Mid Up Temp", Category: "Temperature", Unit: "°C"},
	{Key: "sensors.bar_mid_down", Name: "Bar Mid Down Temp", Category: "Temperature", Unit: "°C"},
	{Key: "sensors.bar_down", Name: "Bar Down Temp", Category: "Temperature", Unit: "°C"},
	{Key: "sensors.tube", Name: "Tube Temp", Category: "Temperature", Unit: "°C"},
	{Key: "sensors.lam_temp", Name: "LAM Temp", Category: "Temperature", Unit: "°C"},

	{Key: "sensors.pressure_sensor", Name: "Pressure Sensor Raw", Category: "Other"},
	{Key: "sensors.bandheater_power", Name: "Bandheater Power", Category: "Other", Unit: "%"},
	{Key: "sensors.bandheater_current", Name: "Bandheater Current", Category: "Other", Unit: "A"},
	{Key: "sensors.weight_prediction", Name: "Weight Prediction", Category: "Other", Unit: "g"},
	{Key: "sensors.adc_0", Name: "ADC 0", Category: "ADC"},
	{Key: "sensors.adc_1", Name: "ADC 1", Category: "ADC"},
	{Key: "sensors.adc_2", Name: "ADC 2", Category: "ADC"},
	{Key: "sensors.adc_3", Name: "ADC 3", Category: "ADC"},
}

// DefaultSelection is what the viewer ticks on first start.
var DefaultSelection = []string{"shot.pressure", "shot.flow", "shot.weight"}

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(Fields))
	for i, f := range Fields {
		m[f.Key] = i
	}
	return m
}()

// LookupField returns the catalog entry for key. Unknown keys get an ad-hoc field named
// after the last path segment so sessions referring to newer sensors still render.
func LookupField(key string) (Field, bool) {
	if i, ok := fieldIndex[key]; ok {
		return Fields[i], true
	}
	name := key
	if i := strings.LastIndex(key, "."); i >= 0 {
		name = key[i+1:]
	}
	return Field{Key: key, Name: name, Category: "Other"}, false
}

// Categories returns category names in catalog order with their fields.
func Categories() ([]string, map[string][]Field) {
	var order []string
	byCat := map[string][]Field{}
	for _, f := range Fields {
		if _, seen := byCat[f.Category]; !seen {
			order = append(order, f.Category)
		}
		byCat[f.Category] = append(byCat[f.Category], f)
	}
	return order, byCat
}

// FieldsInCategory returns the keys of every field in the named categories.
func FieldsInCategory(cats ...string) []string {
	want := map[string]bool{}
	for _, c := range cats {
		want[c] = true
	}
	var out []string
	for _, f := range Fields {
		if want[f.Category] {
			out = append(out, f.Key)
		}
	}
	return out
}
