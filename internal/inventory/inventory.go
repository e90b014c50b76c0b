// SPDX-License-Identifier: MPL-2.0

// Package inventory parses the platform's versioned install-registry XML
// into an immutable snapshot of the installation.
package inventory

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// PersistedVariable names consumed from the registry. Everything else in
// the registry is ignored.
const (
	varConsolePort = "is.console.port"
	varDomainHost  = "isf.server.host"
	varEngineHost  = "isf.agent.host"
)

// ErrMalformedInventory is the sentinel error wrapped by MalformedInventoryError.
var ErrMalformedInventory = errors.New("malformed install inventory")

type (
	// Patch is one applied-patch record from the install history.
	Patch struct {
		ID   string
		Date string
	}

	// Snapshot is the parsed, read-only view of the install registry.
	Snapshot struct {
		// CurrentVersion is the installed platform version, e.g. "11.7".
		CurrentVersion string
		// Patches lists applied patches in registry document order.
		Patches []Patch
		// Products lists installed product identifiers.
		Products []string
		// ConsolePort is the services-tier console port, e.g. "9446".
		ConsolePort string
		// DomainHost is the services-tier hostname.
		DomainHost string
		// EngineHost is the engine-tier hostname as recorded (not upper-cased).
		EngineHost string
	}

	// MalformedInventoryError is returned when a required registry node is
	// absent. It wraps ErrMalformedInventory for errors.Is() compatibility.
	MalformedInventoryError struct {
		Missing string
	}
)

// Error implements the error interface.
func (e *MalformedInventoryError) Error() string {
	return fmt.Sprintf("malformed install inventory: missing %s", e.Missing)
}

// Unwrap returns ErrMalformedInventory so callers can use errors.Is.
func (e *MalformedInventoryError) Unwrap() error { return ErrMalformedInventory }

// Parse extracts the installation snapshot from raw registry XML. It either
// fully succeeds or fails: a snapshot with some fields resolved and others
// missing is never returned, so callers can treat any error as "no
// inventory available" and fall back to authorization-file values.
func Parse(xmlText []byte) (*Snapshot, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlText); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInventory, err)
	}

	snap := &Snapshot{}

	installType := doc.FindElement("//InstallType")
	if installType == nil {
		return nil, &MalformedInventoryError{Missing: "InstallType node"}
	}
	snap.CurrentVersion = installType.SelectAttrValue("currentVersion", "")
	if snap.CurrentVersion == "" {
		return nil, &MalformedInventoryError{Missing: "InstallType currentVersion attribute"}
	}

	for _, event := range doc.FindElements("//HistoricalEvent") {
		if event.SelectAttrValue("installType", "") != "PATCH" {
			continue
		}
		snap.Patches = append(snap.Patches, Patch{
			ID:   event.SelectAttrValue("patchId", ""),
			Date: event.SelectAttrValue("patchDate", ""),
		})
	}

	for _, product := range doc.FindElements("//Product") {
		if id := product.SelectAttrValue("productId", ""); id != "" {
			snap.Products = append(snap.Products, id)
		}
	}

	vars := map[string]string{}
	for _, pv := range doc.FindElements("//PersistedVariable") {
		name := pv.SelectAttrValue("name", "")
		switch name {
		case varConsolePort, varDomainHost, varEngineHost:
			vars[name] = pv.SelectAttrValue("value", "")
		}
	}
	for _, required := range []string{varConsolePort, varDomainHost, varEngineHost} {
		if vars[required] == "" {
			return nil, &MalformedInventoryError{Missing: fmt.Sprintf("PersistedVariable %q", required)}
		}
	}
	snap.ConsolePort = vars[varConsolePort]
	snap.DomainHost = vars[varDomainHost]
	snap.EngineHost = vars[varEngineHost]

	return snap, nil
}
