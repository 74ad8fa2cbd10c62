// Package validator validates and normalizes request input.
//
// Handlers never touch raw request sections directly. A Schema turns a raw
// section (decoded JSON body, URL query or path parameters) into a typed
// value or reports Issues, and Validate applies the section policy on top:
// body and path parameters fail on any issue, while a query drops optional
// parameters that fail and keeps the rest. Struct adapts any tagged Go struct
// into a Schema using go-playground/validator v10.
package validator
