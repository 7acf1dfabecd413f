package domain

// RawRow is one parsed row of an uploaded beat plan, keyed by column header.
// Values are strings when read from CSV and may be numbers from other sources.
type RawRow map[string]any
