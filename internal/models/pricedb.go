package models

// PriceDB is the canonical price database: lowercased market name to its
// item/price mapping. It is a materialized current snapshot; later writes
// for the same (market, item) pair replace earlier ones.
type PriceDB map[string]*PriceMap

// Clone returns a deep copy of the database.
func (db PriceDB) Clone() PriceDB {
	out := make(PriceDB, len(db))
	for market, items := range db {
		out[market] = items.Clone()
	}
	return out
}
