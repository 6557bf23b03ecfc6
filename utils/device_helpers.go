package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/gocca"
)

// fallbackProps is the backend preference order used when no explicit
// device spec is given: parallel backends first, Serial last.
var fallbackProps = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// ChooseDevice creates an OCCA device from a mode spec of the form
// "cuda[:device]", "opencl[:platform[:device]]", "openmp" or "serial".
// An empty spec tries each fallback backend in preference order.
func ChooseDevice(spec string) (*gocca.OCCADevice, error) {
	if spec == "" {
		for _, props := range fallbackProps {
			if device, err := gocca.NewDevice(props); err == nil {
				return device, nil
			}
		}
		return nil, fmt.Errorf("no OCCA backend available")
	}

	props, err := DeviceProps(spec)
	if err != nil {
		return nil, err
	}
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("failed to create device for %q: %w", spec, err)
	}
	return device, nil
}

// DeviceProps translates a mode spec into OCCA JSON device properties.
func DeviceProps(spec string) (string, error) {
	parts := strings.Split(spec, ":")
	mode := strings.ToLower(parts[0])

	ids := make([]int, 0, 2)
	for _, p := range parts[1:] {
		id, err := strconv.Atoi(p)
		if err != nil || id < 0 {
			return "", fmt.Errorf("invalid device index %q in spec %q", p, spec)
		}
		ids = append(ids, id)
	}

	switch mode {
	case "serial":
		return `{"mode": "Serial"}`, nil
	case "openmp":
		return `{"mode": "OpenMP"}`, nil
	case "cuda":
		deviceID := 0
		if len(ids) > 0 {
			deviceID = ids[0]
		}
		return fmt.Sprintf(`{"mode": "CUDA", "device_id": %d}`, deviceID), nil
	case "opencl":
		platformID, deviceID := 0, 0
		if len(ids) > 0 {
			platformID = ids[0]
		}
		if len(ids) > 1 {
			deviceID = ids[1]
		}
		return fmt.Sprintf(`{"mode": "OpenCL", "platform_id": %d, "device_id": %d}`,
			platformID, deviceID), nil
	}
	return "", fmt.Errorf("unknown device mode %q", parts[0])
}

// CreateTestDevice creates a Device for testing, preferring parallel backends
func CreateTestDevice() *gocca.OCCADevice {
	for _, props := range fallbackProps {
		device, err := gocca.NewDevice(props)
		if err == nil {
			fmt.Printf("Created %s Device\n", device.Mode())
			return device
		}
	}

	// Serial should always be available
	panic("Failed to create any Device")
}
