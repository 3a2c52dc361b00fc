// Package keypath decodes typed values out of JSON documents and encodes
// them back, addressing every field by a delimited key path such as
// "user.address.city".
//
// The package provides:
//
// - An ordered, immutable document model (Document, Value) with JSON and YAML input
// - Total decode helpers that return (value, ok) instead of failing loudly
// - Encode helpers that produce fragments, combined with Merge into one document
// - Codecs for primitives, enums, records, dates, URLs, UUIDs and decimals
//
// Decode never panics and never returns an error: a missing path, a value of
// the wrong shape and a narrowing overflow all yield ok == false. Arrays of
// primitives fail as a whole when one element is malformed; arrays of
// records, dates, URLs and similar drop the bad elements instead.
//
// Encode mirrors that. Each helper returns a *Document holding the value
// nested under its path, or nil when there is nothing to write. Merge deep
// merges the fragments left to right, so sibling keys under a common prefix
// end up in the same object and absent fields are simply left out.
//
// Typical usage:
//
//	type User struct {
//		Name string
//		Age  *int
//	}
//
//	func (u *User) DecodeDocument(d *keypath.Document) bool {
//		name, ok := keypath.Decode(d, "profile.name", keypath.String)
//		if !ok {
//			return false
//		}
//		u.Name = name
//		if age, ok := keypath.Decode(d, "profile.age", keypath.Int); ok {
//			u.Age = &age
//		}
//		return true
//	}
//
//	func (u *User) EncodeDocument() (*keypath.Document, bool) {
//		return keypath.Merge(
//			keypath.EncodeValue("profile.name", u.Name, keypath.String),
//			keypath.Encode("profile.age", u.Age, keypath.Int),
//		), true
//	}
//
//	d, err := keypath.ParseJSON(data)
//	u, ok := keypath.DecodeInto[User](d)
//
// The delimiter, the logger used for diagnostics and the ISO 8601 formatter
// can be set per call with Opt or process wide with the SetDefault functions.
package keypath
