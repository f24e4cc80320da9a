package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/verifier"
	"github.com/legalaudit/crvc/pkg/models"
)

// Resolver holds the CRVC components GraphQL fields dispatch to, the way
// the teacher's Resolver held a storage.Storage — here it holds the
// Pipeline Orchestrator instead of a case-law store.
type Resolver struct {
	orchestrator *pipeline.Orchestrator
}

// NewResolver creates a new resolver.
func NewResolver(orchestrator *pipeline.Orchestrator) *Resolver {
	return &Resolver{orchestrator: orchestrator}
}

// ResolveResolver resolves the "resolve" query: a batch of citations to
// Resolutions, using the same Orchestrator the HTTP /resolve route uses.
func (r *Resolver) ResolveResolver(params graphql.ResolveParams) (interface{}, error) {
	rawCitations, ok := params.Args["citations"].([]interface{})
	if !ok {
		return []*models.Resolution{}, nil
	}

	fetchJudgments, _ := params.Args["fetchJudgments"].(bool)

	requests := make([]pipeline.Request, 0, len(rawCitations))
	for _, raw := range rawCitations {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		text, _ := entry["text"].(string)
		caseName, _ := entry["caseName"].(string)
		requests = append(requests, pipeline.Request{CitationText: text, CaseName: caseName})
	}

	return r.orchestrator.ResolveMany(params.Context, requests, pipeline.Options{FetchJudgments: fetchJudgments}), nil
}

// VerifyResolver resolves the "verify" query: a single claim checked
// against the judgment resolved for the supplied citation.
func (r *Resolver) VerifyResolver(params graphql.ResolveParams) (interface{}, error) {
	claimText, _ := params.Args["claimText"].(string)
	citationText, _ := params.Args["citation"].(string)

	resolutions := r.orchestrator.ResolveMany(params.Context, []pipeline.Request{{CitationText: citationText}}, pipeline.Options{FetchJudgments: true})
	if len(resolutions) == 0 || resolutions[0].Judgment == nil {
		return verifier.Verify(claimText, citationText, nil, models.ResolutionUnresolvable), nil
	}

	return verifier.Verify(claimText, citationText, resolutions[0].Judgment, resolutions[0].Status), nil
}

// BuildSchema builds the GraphQL schema backed by resolver.
func BuildSchema(resolver *Resolver) (graphql.Schema, error) {
	return buildSchema(resolver)
}
