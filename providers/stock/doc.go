// Package stock adapts the Stock file search API.
package stock
