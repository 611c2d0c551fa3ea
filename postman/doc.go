// Package postman emits Postman Collection v2.1 documents from the
// canonical model and reads them back.
//
// Each operation becomes one item whose request carries the operation's
// query parameters, path variables, headers, body and auth, with one saved
// response per documented status. Path templates are written in Postman's
// :name form against the document's base URL, which is also stored as the
// baseUrl collection variable.
//
// The collection's _postman_id is a name-based UUID of the title and
// version, so the same model always yields the same bytes.
//
// Parse and Collection.Endpoints recover the method, path template and
// status codes of every item.
package postman
