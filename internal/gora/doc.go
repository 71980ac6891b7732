// Package gora is a client for the Rakuten GORA golf course search and detail APIs.
//
// Requests are built from user search criteria and the stored application id
// (BuildSearch, BuildDetail), sent through Client, and decoded into
// SearchResultItem and CourseDetail records whose attributes are optional
// Values. Provider error envelopes are mapped to typed *Error values through a
// code table so callers can react to the failure kind.
package gora
