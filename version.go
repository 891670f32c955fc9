package shrexport

import "github.com/gofhir/shrexport/pkg/structdef"

// Version is the module version, overridden at build time with
// -ldflags "-X github.com/gofhir/shrexport.Version=...".
var Version = "0.1.0-dev"

// FHIRVersion represents a FHIR specification version.
type FHIRVersion string

// R4 is FHIR Release 4 (4.0.1), the only release documents are written for.
const R4 FHIRVersion = "R4"

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported FHIR version.
func (v FHIRVersion) IsValid() bool {
	_, ok := versionConfigs[v]
	return ok
}

// Number returns the fhirVersion written into documents, or "" for an
// unsupported release.
func (v FHIRVersion) Number() string {
	return versionConfigs[v].FHIRVersionString
}

type versionConfig struct {
	// FHIRVersionString is the version string used in StructureDefinitions
	FHIRVersionString string
}

var versionConfigs = map[FHIRVersion]versionConfig{
	R4: {FHIRVersionString: structdef.FHIRVersion},
}
