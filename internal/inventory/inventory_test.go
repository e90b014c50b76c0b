// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"errors"
	"strings"
	"testing"
)

const validRegistry = `<?xml version="1.0" encoding="UTF-8"?>
<LocalInstallRegistry>
  <InstallType currentVersion="11.7"/>
  <History>
    <HistoricalEvent installType="FULL" patchId="" patchDate="2023-01-10"/>
    <HistoricalEvent installType="PATCH" patchId="JR61234" patchDate="2023-06-02"/>
    <HistoricalEvent installType="PATCH" patchId="JR62001" patchDate="2024-02-17"/>
  </History>
  <Products>
    <Product productId="datastage"/>
    <Product productId="qualitystage"/>
  </Products>
  <PersistedVariables>
    <PersistedVariable name="is.console.port" value="9446"/>
    <PersistedVariable name="isf.server.host" value="host1"/>
    <PersistedVariable name="isf.agent.host" value="eng1"/>
    <PersistedVariable name="unrelated" value="x"/>
  </PersistedVariables>
</LocalInstallRegistry>`

func TestParseValidRegistry(t *testing.T) {
	snap, err := Parse([]byte(validRegistry))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if snap.CurrentVersion != "11.7" {
		t.Errorf("expected version 11.7, got %q", snap.CurrentVersion)
	}
	if len(snap.Patches) != 2 {
		t.Fatalf("expected 2 patches, got %d", len(snap.Patches))
	}
	// Patches must keep document order.
	if snap.Patches[0].ID != "JR61234" || snap.Patches[1].ID != "JR62001" {
		t.Errorf("patches out of order: %+v", snap.Patches)
	}
	if snap.Patches[0].Date != "2023-06-02" {
		t.Errorf("expected patch date 2023-06-02, got %q", snap.Patches[0].Date)
	}
	if len(snap.Products) != 2 || snap.Products[0] != "datastage" {
		t.Errorf("unexpected products: %v", snap.Products)
	}
	if snap.ConsolePort != "9446" || snap.DomainHost != "host1" || snap.EngineHost != "eng1" {
		t.Errorf("unexpected tier values: %+v", snap)
	}
}

func TestParseMissingRequiredNodes(t *testing.T) {
	cases := []struct {
		name   string
		remove string
	}{
		{"no InstallType", `<InstallType currentVersion="11.7"/>`},
		{"no console port", `<PersistedVariable name="is.console.port" value="9446"/>`},
		{"no domain host", `<PersistedVariable name="isf.server.host" value="host1"/>`},
		{"no engine host", `<PersistedVariable name="isf.agent.host" value="eng1"/>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			xml := strings.Replace(validRegistry, tc.remove, "", 1)
			snap, err := Parse([]byte(xml))
			if err == nil {
				t.Fatal("expected MalformedInventory error")
			}
			if !errors.Is(err, ErrMalformedInventory) {
				t.Errorf("expected ErrMalformedInventory, got %v", err)
			}
			if snap != nil {
				t.Errorf("no partial snapshot may escape, got %+v", snap)
			}
		})
	}
}

func TestParseNotXML(t *testing.T) {
	_, err := Parse([]byte("<unclosed"))
	if !errors.Is(err, ErrMalformedInventory) {
		t.Errorf("expected ErrMalformedInventory for broken XML, got %v", err)
	}
}

func TestParseNoPatchesIsValid(t *testing.T) {
	xml := strings.Replace(validRegistry,
		`<HistoricalEvent installType="PATCH" patchId="JR61234" patchDate="2023-06-02"/>`, "", 1)
	xml = strings.Replace(xml,
		`<HistoricalEvent installType="PATCH" patchId="JR62001" patchDate="2024-02-17"/>`, "", 1)

	snap, err := Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(snap.Patches) != 0 {
		t.Errorf("expected no patches, got %+v", snap.Patches)
	}
}
