package aggregator

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/model"
)

// Result contains the outcome of an aggregation.
type Result struct {
	// Document is the canonical model, never nil on success.
	Document *model.Document
	// Warnings lists non-fatal problems in operation order.
	Warnings []*Warning
	Stats    Stats
}

// Stats summarizes an aggregation.
type Stats struct {
	Records    int
	Operations int
	Paths      int
	Responses  int
}

// Aggregate merges records sharing an operation ID into one operation each
// and returns the canonical document.
//
// Records are grouped in a single pass into buckets ordered by first
// appearance, then each bucket is folded left to right. Parameters, headers,
// status codes, tags and security are unions whose result does not depend
// on record order. Bodies follow the leader rule: the first record with a
// non-empty body supplies the example, later ones only add field
// descriptors.
//
// Every fatal problem in every operation is collected; if there is any, the
// joined error is returned and no document is produced.
func Aggregate(records []interaction.Record, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("aggregator: invalid options: %w", err)
	}

	var errs []error
	for i := range records {
		if err := records[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("aggregator: invalid records: %w", errors.Join(errs...))
	}

	var order []string
	groups := make(map[string][]*interaction.Record)
	for i := range records {
		id := records[i].OperationID()
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], &records[i])
	}

	doc := cfg.newDocument()
	result := &Result{Document: doc, Stats: Stats{Records: len(records)}}
	undeclared := make(map[string]bool)
	for _, id := range order {
		op, warnings, err := mergeOperation(id, groups[id], cfg.bodyMethods)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, name := range op.Security.Schemes {
			if _, ok := doc.SecuritySchemes[name]; ok || undeclared[name] {
				continue
			}
			undeclared[name] = true
			doc.SecuritySchemes[name] = model.SecurityScheme{
				Name:      name,
				Kind:      model.SchemeKindAPIKey,
				In:        "header",
				ParamName: name,
			}
			warnings = append(warnings, NewUndeclaredSecuritySchemeWarning(id, name))
		}
		if err := doc.Add(op); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, w := range warnings {
			log := cfg.logger.Info
			if w.Severity.AtLeast(SeverityWarning) {
				log = cfg.logger.Warn
			}
			log(w.Message, "category", string(w.Category), "operation", w.OperationID, "field", w.Field)
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Stats.Responses += len(op.Responses)
		cfg.logger.Debug("merged operation",
			"operation", id,
			"records", len(groups[id]),
			"responses", len(op.Responses),
		)
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		cfg.logger.Error("aggregation failed", "errors", len(errs))
		return nil, err
	}

	result.Stats.Operations = doc.Len()
	result.Stats.Paths = len(doc.PathGroups())
	cfg.logger.Info("aggregated records",
		"records", result.Stats.Records,
		"operations", result.Stats.Operations,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

func (c *config) newDocument() *model.Document {
	doc := model.NewDocument()
	doc.Info = c.info
	doc.Servers = slices.Clone(c.servers)
	doc.Tags = slices.Clone(c.tags)
	doc.BaseURL = c.baseURL
	for _, s := range c.schemes {
		doc.SecuritySchemes[s.Name] = s
	}
	if c.oauth2 != nil {
		s := doc.SecuritySchemes[interaction.SchemeOAuth2]
		s.Name, s.Kind = interaction.SchemeOAuth2, model.SchemeKindOAuth2
		s.OAuth2 = c.oauth2
		doc.SecuritySchemes[interaction.SchemeOAuth2] = s
	}
	return doc
}

// operationMerger folds the records of one operation.
type operationMerger struct {
	id     string
	method string
	path   string

	names       []string
	summary     namedText
	description namedText
	tags        mapset.Set[string]
	schemes     mapset.Set[string]
	scopes      mapset.Set[string]
	deprecated  bool
	private     bool

	pathParams  *paramSet
	queryParams *paramSet
	headers     *paramSet
	request     *bodyMerger
	responses   map[int]*responseMerger

	errs []error
}

type responseMerger struct {
	headers *paramSet
	body    *bodyMerger
}

// namedText keeps the text of the lexically first record that has one.
type namedText struct {
	record string
	text   string
}

func (t *namedText) offer(record, text string) {
	if text == "" {
		return
	}
	if t.text == "" || record < t.record {
		t.record, t.text = record, text
	}
}

func mergeOperation(id string, records []*interaction.Record, bodyMethods map[string]bool) (*model.Operation, []*Warning, error) {
	first := records[0]
	m := &operationMerger{
		id:          id,
		method:      httputil.NormalizeMethod(first.Method),
		path:        httputil.NormalizePath(first.Path),
		tags:        mapset.NewThreadUnsafeSet[string](),
		schemes:     mapset.NewThreadUnsafeSet[string](),
		scopes:      mapset.NewThreadUnsafeSet[string](),
		deprecated:  true,
		private:     true,
		pathParams:  newParamSet(id, "path parameter", false),
		queryParams: newParamSet(id, "query parameter", false),
		headers:     newParamSet(id, "request header", true),
		request:     newBodyMerger(id, "request body"),
		responses:   make(map[int]*responseMerger),
	}
	for _, r := range records {
		m.add(r)
	}
	return m.finish(bodyMethods)
}

func (m *operationMerger) add(r *interaction.Record) {
	m.names = append(m.names, r.Name)
	m.summary.offer(r.Name, r.Summary)
	m.description.offer(r.Name, r.Description)
	m.tags.Append(r.Tags...)
	m.schemes.Append(r.Security.Schemes...)
	m.scopes.Append(r.Security.Scopes...)
	m.deprecated = m.deprecated && r.Deprecated
	m.private = m.private && r.Private

	for _, p := range r.PathParameters {
		m.errs = append(m.errs, m.pathParams.add(p)...)
	}
	for _, p := range r.QueryParameters {
		m.errs = append(m.errs, m.queryParams.add(p)...)
	}
	for _, p := range r.RequestHeaders {
		m.errs = append(m.errs, m.headers.add(p)...)
	}
	m.errs = append(m.errs, m.request.add(r.Request)...)
	m.errs = append(m.errs, m.request.addForm(r.FormParameters)...)

	resp, ok := m.responses[r.Status]
	if !ok {
		resp = &responseMerger{
			headers: newParamSet(m.id, fmt.Sprintf("response %d header", r.Status), true),
			body:    newBodyMerger(m.id, fmt.Sprintf("response %d body", r.Status)),
		}
		m.responses[r.Status] = resp
	}
	for _, h := range r.ResponseHeaders {
		m.errs = append(m.errs, resp.headers.add(h)...)
	}
	m.errs = append(m.errs, resp.body.add(r.Response)...)
}

func (m *operationMerger) finish(bodyMethods map[string]bool) (*model.Operation, []*Warning, error) {
	op := &model.Operation{
		ID:              m.id,
		Name:            commonName(m.names),
		Method:          m.method,
		Path:            m.path,
		Summary:         m.summary.text,
		Description:     m.description.text,
		Tags:            sortedSet(m.tags),
		Deprecated:      m.deprecated,
		Private:         m.private,
		QueryParameters: m.queryParams.sorted(),
		RequestHeaders:  m.headers.sorted(),
		Security: model.Security{
			Schemes: sortedSet(m.schemes),
			Scopes:  sortedSet(m.scopes),
		},
	}

	var warnings []*Warning
	for _, name := range httputil.PathParameterNames(m.path) {
		p, ok := m.pathParams.byName[name]
		if !ok {
			warnings = append(warnings, NewMissingPathParameterWarning(m.id, name))
			p = &interaction.Parameter{Name: name}
		}
		op.PathParameters = append(op.PathParameters, *p)
	}

	var err error
	if op.Request, err = m.request.build(); err != nil {
		m.errs = append(m.errs, err)
	}

	statuses := make([]int, 0, len(m.responses))
	for status := range m.responses {
		statuses = append(statuses, status)
	}
	slices.SortFunc(statuses, cmp.Compare[int])
	for _, status := range statuses {
		resp := m.responses[status]
		body, err := resp.body.build()
		if err != nil {
			m.errs = append(m.errs, err)
			continue
		}
		op.Responses = append(op.Responses, model.Response{
			Status:  status,
			Headers: resp.headers.sorted(),
			Body:    body,
		})
	}

	if len(m.errs) > 0 {
		return nil, nil, errors.Join(m.errs...)
	}

	hasParams := len(op.PathParameters)+len(op.QueryParameters)+len(op.RequestHeaders) > 0
	if op.Request == nil && bodyMethods[op.Method] && hasParams {
		warnings = append(warnings, NewMissingOperationBodyWarning(m.id, op.Method))
		op.Request = &model.Body{ContentType: httputil.MediaTypeJSON}
	}
	return op, warnings, nil
}

func sortedSet(s mapset.Set[string]) []string {
	if s.Cardinality() == 0 {
		return nil
	}
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
