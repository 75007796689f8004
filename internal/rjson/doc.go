// Package rjson parses the relaxed JSON dialect used by migration config
// files (".rjson").
//
// The dialect is strict JSON plus unquoted tokens: a run of characters that
// contains none of the structural characters ' " { } [ ] , : may appear
// wherever a key or scalar value is expected and is read as a string literal,
// trimmed of surrounding spaces. Unlike most relaxed dialects, separators stay
// mandatory, and a space is required after every ',' and after every ':' that
// immediately precedes an unquoted token; that space is structural and is not
// part of the token.
package rjson
