package models

// Counter names known to the system. The counters table is seeded with these
// at migration time and no other names are ever valid.
const (
	CounterUsers    = "users"
	CounterProducts = "products"
)

// Counter is the durable record behind one named id sequence. Its value only
// ever moves forward, and only through the store's atomic increment.
type Counter struct {
	Name  string
	Value int64
}
