package storage

// Key namespace shared by every storage in a tree. These strings are part of the
// saved-state contract and must not change.
const (
	entryPrefix     = "EntryStorage#"
	dataStorePrefix = "DataStore#"
	modelPrefix     = "Model#"

	// ArgsKey holds the navigation arguments inside an entry storage.
	ArgsKey = "args"
	// ResultKey holds the result delivered by a back navigation.
	ResultKey = "result"
)

// EntryKey returns the key of an entry storage inside its controller storage.
func EntryKey(id string) string {
	return entryPrefix + id
}

// DataStoreKey returns the key of a nested controller storage inside its host.
func DataStoreKey(scopeID string) string {
	return dataStorePrefix + scopeID
}

// ModelKey returns the key a model is remembered under.
func ModelKey(key string) string {
	return modelPrefix + key
}
