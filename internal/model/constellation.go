package model

import "time"

// Constellation is a stored drawing. Records are created once and never mutated.
// The JSON shape follows the document-store convention of ref, ts and data.
type Constellation struct {
	Ref       string            `json:"ref"`
	Data      ConstellationData `json:"data"`
	CreatedAt time.Time         `json:"ts"`
}

// ConstellationData is the payload kept verbatim by the store.
type ConstellationData struct {
	// Shape is the serialized drawing geometry, e.g. "M13,20 L45,67".
	Shape string `json:"shape"`
}
