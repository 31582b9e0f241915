package tigo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
)

const testVersionPage = `<table class="list_tb">
	<tr><td>1</td><td>A1</td><td>x</td><td>x</td><td>x</td><td>x</td><td>2.12.23</td><td>x</td><td>455-00200-03</td></tr>
</table>`

const testInfoPage = `<table class="list_tb">
	<tr><td>1</td><td>04:C0:5B:20:00:01</td><td>A1</td></tr>
</table>`

const testSummaryPage = `<html><body>
	<table><tr><td>CC Temperature</td><td>23.5 C</td></tr>
	<tr><td>Firmware Version</td><td>3.6.07</td></tr>
	<tr><td>Hardware Platform</td><td>7.0</td></tr></table>
	<table><tr><td>Unit id 123456789</td></tr></table>
</body></html>`

func newTestCCA(t *testing.T, handler http.Handler, username, password string) (*TigoCCA, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	host := strings.TrimPrefix(srv.URL, "http://")
	return NewTigoCCA(testr.New(t), host, username, password), srv
}

func TestReadConfig(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(versionPath, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(testVersionPage)) })
	mux.HandleFunc(infoPath, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(testInfoPage)) })
	cca, _ := newTestCCA(t, mux, "", "")

	if err := cca.ReadConfig(context.Background()); err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	want := map[string]*PanelVersionInfo{
		"A1": {Label: "A1", MAC: "04:C0:5B:20:00:01", Firmware: "2.12.23", Hardware: "455-00200-03"},
	}
	if diff := cmp.Diff(want, cca.Panels); diff != "" {
		t.Errorf("Panels mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConfigReplacesPreviousInventory(t *testing.T) {
	empty := false
	mux := http.NewServeMux()
	mux.HandleFunc(versionPath, func(w http.ResponseWriter, r *http.Request) {
		if !empty {
			w.Write([]byte(testVersionPage))
		}
	})
	mux.HandleFunc(infoPath, func(w http.ResponseWriter, r *http.Request) {
		if !empty {
			w.Write([]byte(testInfoPage))
		}
	})
	cca, _ := newTestCCA(t, mux, "", "")

	if err := cca.ReadConfig(context.Background()); err != nil {
		t.Fatalf("First ReadConfig failed: %v", err)
	}
	if len(cca.Panels) != 1 {
		t.Fatalf("Expected 1 panel, got %d", len(cca.Panels))
	}

	empty = true
	if err := cca.ReadConfig(context.Background()); err != nil {
		t.Fatalf("Second ReadConfig failed: %v", err)
	}
	if len(cca.Panels) != 0 {
		t.Errorf("Inventory must be replaced, not merged: %v", cca.Panels)
	}
}

func TestReadConfigKeepsInventoryOnTransportFailure(t *testing.T) {
	fail := false
	mux := http.NewServeMux()
	mux.HandleFunc(versionPath, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testVersionPage))
	})
	mux.HandleFunc(infoPath, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(testInfoPage)) })
	cca, _ := newTestCCA(t, mux, "", "")

	if err := cca.ReadConfig(context.Background()); err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	fail = true
	if err := cca.ReadConfig(context.Background()); err == nil {
		t.Fatal("Expected transport failure")
	}
	if len(cca.Panels) != 1 {
		t.Errorf("Previous inventory must survive a failed read: %v", cca.Panels)
	}
}

func TestGetStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(summaryPath, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(testSummaryPage)) })
	mux.HandleFunc(powerPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(powerPage(
			powerRow("04:C0:5B:20:00:01", "A1", "8 secs", "38.5", "35.1", "2.31", "81.1", "86", "41.2", "0D", "186"),
			powerRow("04:C0:5B:20:00:02", "A2", "5 mins", "38.5", "35.1", "2.31", "81.1", "86", "41.2", "0D", "186"),
		)))
	})
	cca, _ := newTestCCA(t, mux, "", "")

	status, err := cca.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.UnitID != "123456789" {
		t.Errorf("unit_id: got %q", status.UnitID)
	}
	if status.Temperature == nil || *status.Temperature != 23.5 {
		t.Errorf("temperature: got %v", status.Temperature)
	}
	if len(status.Panels) != 1 {
		t.Errorf("Expected exactly the live panel, got %v", status.Panels)
	}
	if _, ok := status.Panels["A1"]; !ok {
		t.Error("Live panel A1 missing")
	}
}

func TestGetStatusSecondPageFailureDiscardsSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(summaryPath, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(testSummaryPage)) })
	mux.HandleFunc(powerPath, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	cca, _ := newTestCCA(t, mux, "", "")

	status, err := cca.GetStatus(context.Background())
	if err == nil {
		t.Fatal("Expected failure when the power page is unavailable")
	}
	if status != nil {
		t.Errorf("No partial snapshot may be returned, got %v", status)
	}
}

func TestTurnModulesOff303(t *testing.T) {
	var gotState string
	mux := http.NewServeMux()
	mux.HandleFunc(ctrlPath, func(w http.ResponseWriter, r *http.Request) {
		gotState = r.URL.Query().Get("State")
		w.WriteHeader(http.StatusSeeOther)
	})
	cca, _ := newTestCCA(t, mux, "", "")

	if err := cca.TurnModulesOff(context.Background()); err != nil {
		t.Fatalf("TurnModulesOff failed: %v", err)
	}
	if gotState != "3" {
		t.Errorf("Expected State=3, got State=%s", gotState)
	}
}

func TestTurnModulesOnPeerDisconnect(t *testing.T) {
	var gotState string
	mux := http.NewServeMux()
	mux.HandleFunc(ctrlPath, func(w http.ResponseWriter, r *http.Request) {
		gotState = r.URL.Query().Get("State")
		// the CCA drops the connection instead of finishing its 303
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("ResponseWriter does not support hijacking")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("Hijack failed: %v", err)
			return
		}
		conn.Close()
	})
	cca, _ := newTestCCA(t, mux, "", "")

	if err := cca.TurnModulesOn(context.Background()); err != nil {
		t.Fatalf("TurnModulesOn must treat the disconnect as an acknowledgment: %v", err)
	}
	if gotState != "1" {
		t.Errorf("Expected State=1, got State=%s", gotState)
	}
}

func TestBasicAuth(t *testing.T) {
	var gotUser string
	var gotAuth bool
	mux := http.NewServeMux()
	mux.HandleFunc(summaryPath, func(w http.ResponseWriter, r *http.Request) {
		gotUser, _, gotAuth = r.BasicAuth()
		w.Write([]byte(testSummaryPage))
	})
	mux.HandleFunc(powerPath, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(powerPage())) })

	cca, _ := newTestCCA(t, mux, "Tigo", "$olar")
	if _, err := cca.GetStatus(context.Background()); err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if !gotAuth || gotUser != "Tigo" {
		t.Errorf("Expected basic auth as Tigo, got auth=%v user=%q", gotAuth, gotUser)
	}

	cca, _ = newTestCCA(t, mux, "", "")
	if _, err := cca.GetStatus(context.Background()); err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if gotAuth {
		t.Error("No credentials configured: request must not carry basic auth")
	}
}
