package store

import "strings"

// Well-known CSV columns. The column set is append-only in practice:
// anything not listed here is carried through untouched.
const (
	ColName        = "Platform Name"
	ColCategory    = "Category"
	ColWebsite     = "Official Website"
	ColReferral    = "Referral Link"
	ColNotes       = "Notes"
	ColStatus      = "Status"
	ColLogo        = "Logo"
	ColDescription = "Description"
	ColFeatures    = "Features"
	ColCapsules    = "capsules"
)

// Columns appended by the update pipeline.
const (
	ColLastUpdated  = "lastUpdated"
	ColCurrentDeals = "currentDeals"
	ColLiveStatus   = "status"
)

// Record is a single platform row: an ordered mapping of column name to
// value. Key order is preserved so a save/load cycle keeps the file layout
// stable. Every field is optional; consumers must default missing values.
type Record struct {
	keys   []string
	values map[string]string
}

func NewRecord() *Record {
	return &Record{
		values: make(map[string]string),
	}
}

func (r *Record) Get(key string) string {
	return r.values[key]
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Set assigns a value, appending the column at the end of the key order if
// it is new. Setting an existing column keeps its position.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Name() string {
	return strings.TrimSpace(r.Get(ColName))
}

func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Map returns a copy of the record's fields for JSON serialization.
func (r *Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}
