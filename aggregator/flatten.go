package aggregator

import (
	"slices"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/model"
)

// Flatten turns a document back into records: one per response variant,
// each carrying the operation's canonical request. Aggregating the result
// reproduces the document.
func Flatten(doc *model.Document) []interaction.Record {
	var out []interaction.Record
	for _, op := range doc.Operations() {
		base := interaction.Record{
			Name:            op.Name,
			Method:          op.Method,
			Path:            op.Path,
			Summary:         op.Summary,
			Description:     op.Description,
			Tags:            slices.Clone(op.Tags),
			Private:         op.Private,
			Deprecated:      op.Deprecated,
			PathParameters:  slices.Clone(op.PathParameters),
			QueryParameters: slices.Clone(op.QueryParameters),
			RequestHeaders:  slices.Clone(op.RequestHeaders),
			Security: interaction.Security{
				Schemes: slices.Clone(op.Security.Schemes),
				Scopes:  slices.Clone(op.Security.Scopes),
			},
		}
		if op.Request != nil {
			base.Request = toBody(op.Request)
			base.FormParameters = slices.Clone(op.Request.FormParameters)
		}
		for _, resp := range op.Responses {
			r := base
			r.Status = resp.Status
			r.ResponseHeaders = slices.Clone(resp.Headers)
			if resp.Body != nil {
				r.Response = toBody(resp.Body)
			}
			out = append(out, r)
		}
	}
	return out
}

func toBody(b *model.Body) *interaction.Body {
	return &interaction.Body{
		ContentType: b.ContentType,
		Example:     b.Example,
		Fields:      slices.Clone(b.Fields),
	}
}
