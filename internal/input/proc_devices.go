package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ProcDevicesPath lists every input device the kernel knows about
const ProcDevicesPath = "/proc/bus/input/devices"

// DeviceInfo describes one entry of /proc/bus/input/devices
type DeviceInfo struct {
	Name     string
	Phys     string
	Handlers []string
}

// EventNode returns the /dev/input/eventN node, or "" if there is none
func (d DeviceInfo) EventNode() string {
	return d.node("event")
}

// MouseNode returns the /dev/input/mouseN node, or "" if there is none
func (d DeviceInfo) MouseNode() string {
	return d.node("mouse")
}

func (d DeviceInfo) node(prefix string) string {
	for _, h := range d.Handlers {
		if strings.HasPrefix(h, prefix) && len(h) > len(prefix) {
			return "/dev/input/" + h
		}
	}
	return ""
}

// IsKeyboard reports whether the kernel attached the kbd handler
func (d DeviceInfo) IsKeyboard() bool {
	for _, h := range d.Handlers {
		if h == "kbd" {
			return true
		}
	}
	return false
}

// IsMouse reports whether the device has a mousedev node
func (d DeviceInfo) IsMouse() bool {
	return d.MouseNode() != ""
}

// ListDevices parses the device list at path
func ListDevices(path string) ([]DeviceInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ParseDevices(f)
}

// ParseDevices parses the blank-line separated blocks of /proc/bus/input/devices
func ParseDevices(r io.Reader) ([]DeviceInfo, error) {
	var (
		out []DeviceInfo
		cur DeviceInfo
	)
	flush := func() {
		if cur.Name != "" || len(cur.Handlers) > 0 {
			out = append(out, cur)
		}
		cur = DeviceInfo{}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "N: Name="):
			cur.Name = strings.Trim(strings.TrimPrefix(line, "N: Name="), " \"")
		case strings.HasPrefix(line, "P: Phys="):
			cur.Phys = strings.TrimPrefix(line, "P: Phys=")
		case strings.HasPrefix(line, "H: Handlers="):
			cur.Handlers = strings.Fields(strings.TrimPrefix(line, "H: Handlers="))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse input device list: %w", err)
	}
	flush()
	return out, nil
}
