// Package gemini wraps the Gemini generateContent endpoint used for summaries and library insights.
package gemini
