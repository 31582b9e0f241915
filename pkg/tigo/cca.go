package tigo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/go-logr/logr"
)

// The CCA has no API: these CGI pages are the whole interface.
const (
	summaryPath = "/cgi-bin/lmudui"
	powerPath   = "/cgi-bin/meshdatapower"
	versionPath = "/cgi-bin/meshnodever"
	infoPath    = "/cgi-bin/meshnodeinfo"
	ctrlPath    = "/cgi-bin/mobile_ctrl"
)

// Module states accepted by the control endpoint's State parameter.
const (
	stateModulesOn  = "1"
	stateModulesOff = "3"
)

// TigoCCA is a client for one Tigo Cloud Connect Advanced controller.
//
// One operation at a time per instance: every operation fetches its pages
// strictly sequentially because later pages are interpreted against state
// built from earlier ones, and the device itself does not promise to
// survive concurrent scrapes. Callers own timeouts via the context.
type TigoCCA struct {
	log      logr.Logger
	urlRoot  string
	username string
	password string
	client   *http.Client

	// Panels is the label-keyed optimizer inventory from the last
	// successful ReadConfig, replaced wholesale on every read.
	Panels map[string]*PanelVersionInfo
}

func NewTigoCCA(log logr.Logger, host, username, password string) *TigoCCA {
	return &TigoCCA{
		log:      log,
		urlRoot:  "http://" + host,
		username: username,
		password: password,
		client: &http.Client{
			// The CCA answers control commands with a 303 it never finishes
			// sending; following it would turn an acknowledgment into an error.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Panels: make(map[string]*PanelVersionInfo),
	}
}

// getPage GETs one CGI page and returns its body. A 303 answer, or the peer
// dropping the connection while delivering one, is how the CCA acknowledges
// control commands; both yield an empty page and no error. Any other
// transport fault propagates untouched.
func (c *TigoCCA) getPage(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.urlRoot+path, nil)
	if err != nil {
		return "", err
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	res, err := c.client.Do(req)
	if err != nil {
		if isCommandAck(err) {
			c.log.V(1).Info("Connection dropped by CCA (command acknowledged)", "path", path)
			return "", nil
		}
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusSeeOther {
		return "", nil
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: status %d", path, res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		if isCommandAck(err) {
			c.log.V(1).Info("Connection dropped by CCA (command acknowledged)", "path", path)
			return "", nil
		}
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	return string(body), nil
}

// isCommandAck recognizes the disconnect pattern the CCA produces instead
// of completing its 303 command acknowledgment.
func isCommandAck(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET)
}

// ReadConfig reads the optimizer inventory in two phases: the version page
// builds the label-keyed records, then the info page back-fills each
// record's MAC. The previous inventory stays untouched unless both fetches
// succeed; on success it is replaced, never merged.
func (c *TigoCCA) ReadConfig(ctx context.Context) error {
	infos := make(map[string]*PanelVersionInfo)
	page, err := c.getPage(ctx, versionPath)
	if err != nil {
		return fmt.Errorf("reading panel versions: %w", err)
	}
	scanRows(page, versionRows(infos))
	page, err = c.getPage(ctx, infoPath)
	if err != nil {
		return fmt.Errorf("reading panel info: %w", err)
	}
	scanRows(page, infoRows(infos))
	c.Panels = infos
	c.log.Info("Read CCA configuration", "panels", len(infos))
	return nil
}

// GetStatus reads one snapshot of the controller and the currently live
// panels. Either page failing discards the whole snapshot; no partial
// results are returned.
func (c *TigoCCA) GetStatus(ctx context.Context) (*CcaStatus, error) {
	status := NewCcaStatus()
	page, err := c.getPage(ctx, summaryPath)
	if err != nil {
		return nil, fmt.Errorf("reading CCA summary: %w", err)
	}
	scanSummary(c.log, page, status)
	page, err = c.getPage(ctx, powerPath)
	if err != nil {
		return nil, fmt.Errorf("reading panel status: %w", err)
	}
	scanRows(page, powerRows(c.log, status))
	return status, nil
}

// TurnModulesOff commands every optimizer into its safe (off) state.
func (c *TigoCCA) TurnModulesOff(ctx context.Context) error {
	return c.control(ctx, stateModulesOff)
}

// TurnModulesOn commands every optimizer back into production.
func (c *TigoCCA) TurnModulesOn(ctx context.Context) error {
	return c.control(ctx, stateModulesOn)
}

func (c *TigoCCA) control(ctx context.Context, state string) error {
	c.log.Info("Setting module state", "state", state)
	if _, err := c.getPage(ctx, ctrlPath+"?State="+state); err != nil {
		return fmt.Errorf("module control failed: %w", err)
	}
	return nil
}
