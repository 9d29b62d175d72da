// Package queryir is the filter language over recorded actions.
//
// A Query is a predicate tree over the columns of the action history plus
// an optional limit. Backends compile it; see querysql for SQLite.
//
// Query and Predicate are sealed: only this package declares predicate
// types, so backends can switch over them exhaustively.
//
//	switch p := pred.(type) {
//	case Equals:
//	case Prefix:
//	case And:
//	}
//
// Literal values are ir values. Text columns compare against ir.String and
// depth against ir.Int.
package queryir
