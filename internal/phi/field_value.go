package phi

// FieldValue is one stored value of a registered PHI field, addressed by the
// owning row's id. Used by the rotation orchestrator to enumerate exactly
// what must be re-encrypted.
type FieldValue struct {
	ID    int64
	Value string
}
