// Package aggregator merges interaction records into the canonical API
// model.
//
// Many documentation tests usually exercise the same operation: a happy
// path, a validation failure, a missing resource. Each produces its own
// record. Aggregate groups them by operation ID (method plus normalized
// path template) and folds every group into one operation that documents
// the union of what the records saw.
//
// # Merge rules
//
//   - Parameters and headers are unioned by name (headers case-insensitively).
//     The first non-empty description wins; a different non-empty one is a
//     [apierrors.DescriptionConflictError]. Differing type hints are a
//     [apierrors.SchemaConflictError]. A parameter is optional only when
//     every record says so.
//   - Each distinct status keeps its own response headers and body.
//   - Bodies follow the leader rule: the first record with a non-empty body
//     supplies the example; all records contribute field descriptors.
//   - Tags, security schemes and scopes are sorted unions. An operation is
//     deprecated or private only when every record is.
//
// Fatal problems from all operations are collected and returned together.
// Non-fatal ones, such as a POST documented without any request body, are
// returned as [Warning] values alongside the document.
//
// # Example
//
//	records, err := interaction.LoadDir("build/api-spec")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := aggregator.Aggregate(records,
//	    aggregator.WithInfo(model.Info{Title: "Shop", Version: "2.1.0"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    fmt.Println(w)
//	}
package aggregator
