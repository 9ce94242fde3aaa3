// ABOUTME: Cache keys identifying remote resources by logical identity
// ABOUTME: A key is a resource kind plus an optional resource id

package query

// Kind names a class of remote resource held in the cache.
type Kind string

const (
	KindDefects Kind = "defects" // the full defect collection
	KindDefect  Kind = "defect"  // a single defect, identified by ID
	KindStats   Kind = "stats"   // aggregate defect statistics
	KindUsers   Kind = "users"   // the user directory
)

// Key is the logical identity of one cache entry.
type Key struct {
	Kind Kind
	ID   string
}

// DefectsKey is the key for the whole defect collection.
func DefectsKey() Key { return Key{Kind: KindDefects} }

// DefectKey is the key for a single defect.
func DefectKey(id string) Key { return Key{Kind: KindDefect, ID: id} }

// StatsKey is the key for aggregate statistics.
func StatsKey() Key { return Key{Kind: KindStats} }

// UsersKey is the key for the user directory.
func UsersKey() Key { return Key{Kind: KindUsers} }

// String renders the key for logging and for singleflight grouping.
func (k Key) String() string {
	if k.ID == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + ":" + k.ID
}
