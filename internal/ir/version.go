package ir

// Version constants for the color model and tool.
const (
	// ColorModelVersion is the version of the color descriptor encoding.
	// It is part of DomainColor and DomainTable; bump it when the descriptor
	// shape or its encoding changes.
	ColorModelVersion = "1"

	// ToolVersion is the colorgraph tool version.
	ToolVersion = "0.1.0"
)
