// Package sensor reads the environmental sensor (temperature, pressure and,
// on the BME280, humidity).
package sensor

// Measurement is one sensor reading.
type Measurement struct {
	// Pressure in Pa.
	Pressure uint32
	// Temperature in centi-degrees Celsius.
	Temperature int16
	// Humidity in %. 0 means the sensor has no humidity channel (BMP280).
	Humidity uint8
}

// Sensor takes measurements on demand.
type Sensor interface {
	Measure() (Measurement, error)
	Close() error
}

// DefaultAddr is the BME280 primary I2C address.
const DefaultAddr = 0x76
