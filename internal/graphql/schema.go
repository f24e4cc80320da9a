package graphql

import (
	"github.com/graphql-go/graphql"
)

// Schema is the CRVC's two-query GraphQL schema: resolve (citations in,
// Resolutions out) and verify, mirroring the HTTP /resolve and /verify
// contracts for GraphQL callers
// (SPEC_FULL.md §6.3 — schema text + resolver wiring only, no independent
// business logic).
var Schema graphql.Schema

// CandidateUrlType mirrors pkg/models.CandidateUrl.
var CandidateUrlType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CandidateUrl",
	Fields: graphql.Fields{
		"url":    &graphql.Field{Type: graphql.String},
		"source": &graphql.Field{Type: graphql.String},
	},
})

// ParagraphType mirrors pkg/models.Paragraph.
var ParagraphType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Paragraph",
	Fields: graphql.Fields{
		"number": &graphql.Field{Type: graphql.String},
		"text":   &graphql.Field{Type: graphql.String},
	},
})

// JudgmentType mirrors pkg/models.Judgment.
var JudgmentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Judgment",
	Fields: graphql.Fields{
		"caseName":   &graphql.Field{Type: graphql.String},
		"court":      &graphql.Field{Type: graphql.String},
		"date":       &graphql.Field{Type: graphql.String},
		"sourceURL":  &graphql.Field{Type: graphql.String},
		"paragraphs": &graphql.Field{Type: graphql.NewList(ParagraphType)},
	},
})

// ResolutionType mirrors pkg/models.Resolution.
var ResolutionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Resolution",
	Fields: graphql.Fields{
		"citationText": &graphql.Field{Type: graphql.String},
		"status":       &graphql.Field{Type: graphql.String},
		"candidates":   &graphql.Field{Type: graphql.NewList(CandidateUrlType)},
		"judgment":     &graphql.Field{Type: JudgmentType},
		"notes":        &graphql.Field{Type: graphql.String},
	},
})

// VerificationType mirrors pkg/models.Verification.
var VerificationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Verification",
	Fields: graphql.Fields{
		"outcome":    &graphql.Field{Type: graphql.String},
		"confidence": &graphql.Field{Type: graphql.Float},
		"notes":      &graphql.Field{Type: graphql.String},
	},
})

// CitationInputType is the input argument shape for the resolve query.
var CitationInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CitationInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"text":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"caseName": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

func buildSchema(resolver *Resolver) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"resolve": &graphql.Field{
				Type: graphql.NewList(ResolutionType),
				Args: graphql.FieldConfigArgument{
					"citations": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(CitationInputType)),
					},
					"fetchJudgments": &graphql.ArgumentConfig{
						Type:         graphql.Boolean,
						DefaultValue: false,
					},
				},
				Resolve: resolver.ResolveResolver,
			},
			"verify": &graphql.Field{
				Type: VerificationType,
				Args: graphql.FieldConfigArgument{
					"claimText": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"citation":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: resolver.VerifyResolver,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
