package model

import _ "embed"

// JSON schemas describing the persisted collections. The file store checks
// every loaded document against them.
var (
	//go:embed schema/todos.schema.json
	TodoCollectionSchema []byte

	//go:embed schema/repeating.schema.json
	RepeatingCollectionSchema []byte
)
