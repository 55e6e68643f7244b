package repokit

// Binder attaches a repo to a Queryer chosen at wiring time
type Binder[T any] interface {
	Bind(Queryer) T
}

// RequireQueryer panics on a nil q so wiring mistakes fail at boot
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

// MustBind checks q then binds
func MustBind[T any](b Binder[T], q Queryer) T { return b.Bind(RequireQueryer(q)) }
