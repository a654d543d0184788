package models

import "slices"

// Identity 0 means the record has not been stored yet; the database assigns
// ids on insert.

// appendID adds id to ids unless it is already present
func appendID(ids []int64, id int64) []int64 {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// removeID drops every occurrence of id from ids
func removeID(ids []int64, id int64) []int64 {
	return slices.DeleteFunc(ids, func(v int64) bool { return v == id })
}

// UniqueIDs returns ids without duplicates, keeping first-seen order
func UniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = appendID(out, id)
	}
	return out
}
