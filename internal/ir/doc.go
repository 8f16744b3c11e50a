// Package ir provides the catalog and vector types shared by every prodnet
// package.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Resource vectors are maps; iteration order is never part of a contract
//   - Catalog types are read-only once loaded
//   - Canonical JSON renders floats with at most 4 decimals
//   - All JSON tags use snake_case
package ir
