// Package compiler builds schema registries from CUE documents.
//
// A document declares entities and unions:
//
//	entities: {
//		answer: {}
//		question: definition: answers: ["answer"]
//		user: idAttribute: "name"
//	}
//	unions: step: {
//		attribute: "type"
//		schemas: {content: "content", question: "question"}
//	}
//
// A definition member is either the name of a schema or a one-element list
// holding that name, for arrays. Names resolve against all declared entities
// and unions, so an entity may refer to itself or to a union declared later.
package compiler
