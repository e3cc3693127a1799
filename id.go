package verger

import "github.com/smartequiz/verger/id"

// ID is the primary identifier type for all Verger entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
