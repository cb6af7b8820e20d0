// Package page holds the data a rendered page is built from.
//
// A Record is the ordered field/value mapping parsed from one content file.
// Data is a Record that has been completed by the Assembler with the fields
// every page carries (base_url, themes_url, permalink, styles, scripts). Data
// is what themes are filled with and what is written to index.json.
package page
