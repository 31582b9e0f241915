package tigo

import "testing"

func TestPanelModel(t *testing.T) {
	tests := []struct {
		hw   string
		want string
	}{
		{"455-00200-03", "TS4-A-M"},
		{"461-00260-13", "TS4-A-O"},
		{"462-00100-00", "TS4-A-O"},
		{"466-00000-21", "TS4-A-S"},
		{"481-00230-11", "TS4-A-F"},
		{"486-00110-02", "TS4-A-F"},
		{"488-00001-00", "TS4-A-F"},
		{"484-00250-42", "TS4-A-2F"},
		{"485-00010-10", "TS4-A-2F"},
		{"487-00300-00", "TS4-A-2F"},
		{"999-00000-00", ModelUnknown},
		{"", ModelUnknown},
	}
	for _, tt := range tests {
		p := &PanelVersionInfo{Hardware: tt.hw}
		if got := p.Model(); got != tt.want {
			t.Errorf("Model(%q): expected %s, got %s", tt.hw, tt.want, got)
		}
	}
}
