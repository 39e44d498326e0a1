// Package extract pulls table-like names out of a grouped SQL token tree.
//
// Two independent extractions feed the safety validator:
//
//   - Tables: every name referenced in FROM/JOIN position, at any nesting
//     level reachable through parenthesized subqueries. Function-call
//     argument lists are never descended into, so EXTRACT(DOW FROM col)
//     contributes nothing.
//   - TransientNames: names the query introduces itself (CTE names and
//     subquery aliases). These are subtracted from the referenced set before
//     schema membership is checked; they are never schema tables.
//
// All names are lowercase-normalized and unquoted.
package extract
