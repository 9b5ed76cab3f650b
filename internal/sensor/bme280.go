package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// BME280 is a Bosch BME280 or BMP280 on an I2C bus.
// periph.io/x/host must be initialised before Open.
type BME280 struct {
	bus i2c.BusCloser
	dev *bmxx80.Dev
}

// OpenBME280 opens the named I2C bus ("" for the first one) and configures the
// sensor at addr.
func OpenBME280(bus string, addr uint16) (*BME280, error) {
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", bus, err)
	}
	opts := bmxx80.DefaultOpts
	dev, err := bmxx80.NewI2C(b, addr, &opts)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("init bme280 at %#x: %w", addr, err)
	}
	return &BME280{bus: b, dev: dev}, nil
}

// Measure runs one forced measurement.
func (s *BME280) Measure() (Measurement, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return Measurement{}, fmt.Errorf("sense: %w", err)
	}
	return FromEnv(e), nil
}

// Close halts the sensor and releases the bus.
func (s *BME280) Close() error {
	var errs []error
	if err := s.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt sensor: %w", err))
	}
	if err := s.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// FromEnv converts a periph reading to the firmware's fixed-point units.
func FromEnv(e physic.Env) Measurement {
	centi := int64(e.Temperature-physic.ZeroCelsius) / int64(10*physic.MilliKelvin)
	return Measurement{
		Pressure:    uint32(e.Pressure / physic.Pascal),
		Temperature: int16(centi),
		Humidity:    uint8(e.Humidity / physic.PercentRH),
	}
}
