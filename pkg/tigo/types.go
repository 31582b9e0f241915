package tigo

import (
	"fmt"
	"strings"
)

// PanelVersionInfo identifies one TS4 optimizer attached to a PV panel.
// Label and MAC are both unique on a given CCA; the label is the join key
// across the version and info pages.
type PanelVersionInfo struct {
	Label    string `json:"label" yaml:"label"`
	MAC      string `json:"mac,omitempty" yaml:"mac,omitempty"`
	Firmware string `json:"fw,omitempty" yaml:"fw,omitempty"`
	Hardware string `json:"hw,omitempty" yaml:"hw,omitempty"`
}

// ModelUnknown is reported for hardware revisions not in the TS4 table.
const ModelUnknown = "?"

var ts4Models = []struct {
	revision string
	model    string
}{
	{"455", "TS4-A-M"},
	{"461", "TS4-A-O"},
	{"462", "TS4-A-O"},
	{"466", "TS4-A-S"},
	{"481", "TS4-A-F"},
	{"486", "TS4-A-F"},
	{"488", "TS4-A-F"},
	{"484", "TS4-A-2F"},
	{"485", "TS4-A-2F"},
	{"487", "TS4-A-2F"},
}

// Model derives the TS4 model name from the hardware revision string.
func (p *PanelVersionInfo) Model() string {
	for _, m := range ts4Models {
		if strings.Contains(p.Hardware, m.revision) {
			return m.model
		}
	}
	return ModelUnknown
}

func (p *PanelVersionInfo) String() string {
	return fmt.Sprintf("Panel %s (%s): MAC=%s FW=%s HW=%s", p.Label, p.Model(), p.MAC, p.Firmware, p.Hardware)
}

// PanelStatus is one live telemetry sample for a panel. Numeric fields are
// pointers: the CCA reports n/a for values a node did not send, and an
// absent reading must stay distinguishable from zero.
type PanelStatus struct {
	MAC         string   `json:"mac,omitempty" yaml:"mac,omitempty"`
	Label       string   `json:"label" yaml:"label"`
	VoltageIn   *float64 `json:"voltage_in,omitempty" yaml:"voltage_in,omitempty"`
	VoltageOut  *float64 `json:"voltage_out,omitempty" yaml:"voltage_out,omitempty"`
	Current     *float64 `json:"current,omitempty" yaml:"current,omitempty"`
	Power       *float64 `json:"power,omitempty" yaml:"power,omitempty"`
	PWM         *int     `json:"pwm,omitempty" yaml:"pwm,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	// Status is the node's status bitmask (rendered in hex on the page).
	Status *int64 `json:"status,omitempty" yaml:"status,omitempty"`
	RSSI   *int   `json:"rssi,omitempty" yaml:"rssi,omitempty"`
}

func (p *PanelStatus) String() string {
	return fmt.Sprintf("Panel %s: Pwr=%s Tmp=%s", p.Label, fmtFloat(p.Power), fmtFloat(p.Temperature))
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%g", *v)
}

// CcaStatus is one point-in-time snapshot of the controller and every
// panel the CCA currently hears from. Panels reported stale by the device
// are absent, never carried over.
type CcaStatus struct {
	UnitID           string                  `json:"unit_id,omitempty" yaml:"unit_id,omitempty"`
	HardwarePlatform string                  `json:"hw_platform,omitempty" yaml:"hw_platform,omitempty"`
	FirmwareVersion  string                  `json:"fw_version,omitempty" yaml:"fw_version,omitempty"`
	Temperature      *float64                `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Panels           map[string]*PanelStatus `json:"panels" yaml:"panels"`
}

func NewCcaStatus() *CcaStatus {
	return &CcaStatus{Panels: make(map[string]*PanelStatus)}
}

func (c *CcaStatus) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tigo CCA #%s FW=%s HW=%s Temp=%s", c.UnitID, c.FirmwareVersion, c.HardwarePlatform, fmtFloat(c.Temperature))
	for _, p := range c.Panels {
		b.WriteString("\n")
		b.WriteString(p.String())
	}
	return b.String()
}
