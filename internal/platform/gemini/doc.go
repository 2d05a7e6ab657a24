// Package gemini implements the three external engine boundaries
// (text extraction, structured translation, image synthesis) on top of
// Google's Gemini API.
//
// The translation engine enforces a strict structured-output contract via
// a response schema; any violation surfaces as a single malformed-output
// error rather than being speculatively repaired.
package gemini
