// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user CUE documents against an embedded schema and
// decodes them into Go values, reporting errors with JSON-style field paths
// ("pins.graal_version: ...").
package cueutil
