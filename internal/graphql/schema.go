package graphql

import (
	_ "embed"

	graphqlgo "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaDocument string

// ParseSchema собирает исполняемую схему над корневым резолвером
func ParseSchema(resolver *Resolver) (*graphqlgo.Schema, error) {
	return graphqlgo.ParseSchema(schemaDocument, resolver)
}
