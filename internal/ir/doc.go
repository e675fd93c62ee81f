// Package ir provides the shared types for depwhy: queries, fact records,
// reports and conversation turns.
//
// This package contains type definitions plus canonical serialization. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Fact records are values; tables hand out copies, never shared slices
//   - All JSON tags use snake_case
//   - Report identity is content-addressed (see ReportID), so assembling the
//     same query twice yields the same id
package ir
