// Package paramgen accumulates typed parameter declarations into an ordered,
// immutable schema. A Generator plays the role of the dynamic-reconfigure
// parameter generator: callers register each parameter with Add (name, kind,
// level, description, default and optional inclusive bounds) and later take a
// Schema snapshot that downstream packages turn into config types, OpenAPI
// documents, HTML forms or interactive prompts.
//
// Declaration helpers such as navigation.AddNavigationParams only depend on
// the Builder interface so alternate builders can be supplied. The Generator
// is responsible for rejecting duplicate names, type mismatches and defaults
// outside their bounds.
package paramgen
