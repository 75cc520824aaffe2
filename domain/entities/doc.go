// Package entities provides the core value types shared by the dispatcher:
// native identifiers, stack values, vectors and the identifier remap table.
package entities
