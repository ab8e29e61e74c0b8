package global

// CtxKey namespaces values stored in a context.Context so this package's
// keys never collide with another package's.
type CtxKey string
