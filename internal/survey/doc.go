// Package survey is a demo application of the normalized store: surveys made
// of content, question and rating steps, questions holding answers, and the
// current user.
//
// Entities reach the store nested, through the add actions, and are split
// into one collection per type by the normalization middleware. Selectors
// rebuild the nested values on demand.
package survey
