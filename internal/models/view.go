package models

// View selects the response shape of an entity.
type View int

const (
	// ViewList is the compact shape used by listings.
	ViewList View = iota
	// ViewDetail nests related entities.
	ViewDetail
	// ViewWrite echoes the stored fields with raw foreign keys, used for create/update responses.
	ViewWrite
)
