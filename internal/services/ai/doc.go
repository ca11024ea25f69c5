// Package ai contains the AI analysis boundary.
//
// It exposes consultation summarization while keeping provider wire details
// behind the narrow TextGenerator contract, so the relay never depends on a
// specific model vendor.
package ai
