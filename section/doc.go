// Package section implements the fixed-layout regions of a GraphCol chunk:
// the V1 header with its column directory, the V2 footer and trailer, and the
// sorted entity index that V2 appends for single-entity range access.
//
// Everything here is byte layout and validation; the column payloads
// themselves are encoded by the encoding package and orchestrated by the
// chunk package.
package section
