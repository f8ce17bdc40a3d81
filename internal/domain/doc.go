// Package domain holds shared domain primitives: sentinel errors, ordered
// field-level validation findings, and the Action/WriteStager contracts used
// for staged write execution. Entity types live in the subpackages donation
// and event.
package domain
