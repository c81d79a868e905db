package redis

import "github.com/mcoot/holdem/internal/model"

// keyspace builds the keys under one prefix. Layout:
//
//	<prefix>:table:<id>   JSON table record, expires after TableTTL
//	<prefix>:idx:tables   SET of table keys, pruned lazily on list
//	<prefix>:hands:<id>   LIST of JSON hand records, newest first
type keyspace string

func (k keyspace) table(id model.GameID) string {
	return string(k) + ":table:" + string(id)
}

func (k keyspace) tablesIndex() string {
	return string(k) + ":idx:tables"
}

func (k keyspace) hands(id model.GameID) string {
	return string(k) + ":hands:" + string(id)
}
