// Package clients holds tenant records and the directory they live in.
//
// Clients reference themes by name only; whether that name resolves is the
// resolver's concern, not the directory's. Optional fields are pointers so an
// unset value serializes as null rather than an empty string.
package clients
