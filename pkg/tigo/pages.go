package tigo

import (
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

// rowBuilder adapts a per-page column table to the tableScanner contract.
// beginCol marks the column that opens a fresh record (0 when the page is
// column-driven and has no row lifecycle); columns map positional cells
// into the record; flush runs at row end.
type rowBuilder struct {
	beginCol int
	begin    func()
	columns  map[int]func(text string)
	flush    func()

	started bool
}

func (b *rowBuilder) cell(col int, text string) {
	if col == b.beginCol {
		b.started = true
		if b.begin != nil {
			b.begin()
		}
	}
	if b.beginCol != 0 && !b.started {
		return
	}
	if set, ok := b.columns[col]; ok {
		set(text)
	}
}

func (b *rowBuilder) rowEnd() {
	if b.started || b.beginCol == 0 {
		if b.flush != nil {
			b.flush()
		}
	}
	b.started = false
}

func scanRows(page string, b *rowBuilder) {
	s := &tableScanner{OnCell: b.cell, OnRowEnd: b.rowEnd}
	_ = s.Scan(strings.NewReader(page)) // lenient scan never fails
}

// Column setters for numeric cells. The scanner already eats the n/a
// placeholder; anything else unparseable here is garbage in a numeric
// column, and it costs the field, not the page.
func floatCol(log logr.Logger, name string, set func(float64)) func(string) {
	return func(text string) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			log.V(1).Info("Skipping unparseable cell", "column", name, "text", text)
			return
		}
		set(v)
	}
}

func intCol(log logr.Logger, name string, set func(int)) func(string) {
	return func(text string) {
		v, err := strconv.Atoi(text)
		if err != nil {
			log.V(1).Info("Skipping unparseable cell", "column", name, "text", text)
			return
		}
		set(v)
	}
}

func hexCol(log logr.Logger, name string, set func(int64)) func(string) {
	return func(text string) {
		v, err := strconv.ParseInt(text, 16, 64)
		if err != nil {
			log.V(1).Info("Skipping unparseable cell", "column", name, "text", text)
			return
		}
		set(v)
	}
}

// powerRows interprets the live mesh-data/power page into status.Panels.
// Column 4 is the last-report age; a row aged in minutes or hours is a
// stale node and is dropped so old readings never pose as fresh.
func powerRows(log logr.Logger, status *CcaStatus) *rowBuilder {
	var cur *PanelStatus
	var age string
	b := &rowBuilder{
		beginCol: 1,
		begin: func() {
			cur = &PanelStatus{}
			age = ""
		},
	}
	b.columns = map[int]func(string){
		2:  func(s string) { cur.MAC = s },
		3:  func(s string) { cur.Label = s },
		4:  func(s string) { age = s },
		13: floatCol(log, "voltage_in", func(v float64) { cur.VoltageIn = &v }),
		14: floatCol(log, "voltage_out", func(v float64) { cur.VoltageOut = &v }),
		15: floatCol(log, "current", func(v float64) { cur.Current = &v }),
		16: floatCol(log, "power", func(v float64) { cur.Power = &v }),
		17: intCol(log, "pwm", func(v int) { cur.PWM = &v }),
		18: floatCol(log, "temperature", func(v float64) { cur.Temperature = &v }),
		21: hexCol(log, "status", func(v int64) { cur.Status = &v }),
		22: intCol(log, "rssi", func(v int) { cur.RSSI = &v }),
	}
	b.flush = func() {
		if cur == nil {
			return
		}
		if cur.Label != "" && !strings.Contains(age, "hrs") && !strings.Contains(age, "min") {
			status.Panels[cur.Label] = cur
		}
		cur = nil
	}
	return b
}

// versionRows interprets the mesh node version page into a fresh
// label-keyed map of version records.
func versionRows(infos map[string]*PanelVersionInfo) *rowBuilder {
	var cur *PanelVersionInfo
	b := &rowBuilder{
		beginCol: 1,
		begin:    func() { cur = &PanelVersionInfo{} },
	}
	b.columns = map[int]func(string){
		2: func(s string) { cur.Label = s },
		7: func(s string) { cur.Firmware = s },
		9: func(s string) { cur.Hardware = s },
	}
	b.flush = func() {
		if cur != nil && cur.Label != "" {
			infos[cur.Label] = cur
		}
		cur = nil
	}
	return b
}

// infoRows interprets the mesh node info page, back-filling each version
// record's MAC. The version page has no MAC column, so this page supplies
// the cross-reference; the join is column-driven (the label cell applies
// the MAC captured two cells earlier). Rows for labels the version page
// never reported are ignored.
func infoRows(infos map[string]*PanelVersionInfo) *rowBuilder {
	var mac string
	b := &rowBuilder{}
	b.columns = map[int]func(string){
		2: func(s string) { mac = s },
		3: func(s string) {
			if info, ok := infos[s]; ok {
				info.MAC = mac
			}
		},
	}
	return b
}

// scanSummary interprets the free-form CCA summary page. The page is not
// row-based: known caption cells are followed by a cell holding the value.
func scanSummary(log logr.Logger, page string, status *CcaStatus) {
	const (
		fieldNone = iota
		fieldTemperature
		fieldFirmware
		fieldHardware
	)
	pending := fieldNone
	s := &cellScanner{OnCell: func(text string) {
		switch pending {
		case fieldTemperature:
			pending = fieldNone
			if v, err := strconv.ParseFloat(strings.TrimSuffix(text, " C"), 64); err == nil {
				status.Temperature = &v
			} else {
				log.V(1).Info("Skipping unparseable cell", "column", "cc_temperature", "text", text)
			}
			return
		case fieldFirmware:
			pending = fieldNone
			// the CCA shows 0.0 until it has learned its own version
			if text != "0.0" {
				status.FirmwareVersion = text
			}
			return
		case fieldHardware:
			pending = fieldNone
			status.HardwarePlatform = text
			return
		}
		switch {
		case text == "CC Temperature":
			pending = fieldTemperature
		case text == "Firmware Version":
			pending = fieldFirmware
		case text == "Hardware Platform":
			pending = fieldHardware
		case strings.Contains(text, "Unit id"):
			// footer cell, e.g. "Unit id 123456789"
			if f := strings.Fields(text); len(f) >= 3 {
				status.UnitID = f[2]
			}
		}
	}}
	_ = s.Scan(strings.NewReader(page))
}
