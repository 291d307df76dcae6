// Package dapi implements the registry's signed XML-over-HTTP protocol.
//
// A request is built from a command name and one or more raw attribute
// payloads, signed with a detached signature over the exact command text,
// wrapped with the registrar credentials into a DAPI document and POSTed as
// the single form field "command". The response document is classified into
// a success Result, a list of command nodes (multi-row responses), or a
// typed *domain.Error.
//
//	client := dapi.New(dapi.Config{URL: dapi.URLTest, Credentials: creds})
//	defer client.Close()
//	res, err := client.Execute(ctx, "altalanos_kereses", payload, "example.hu")
//
// A Client is not safe for concurrent use.
package dapi
