// Package todo reads task files into task entries.
//
// Two formats are supported and chosen by file extension.
//
// Plain text (any extension other than .json) holds one task per line:
//
//	Wake
//	Eat
//	Drink
//
// Surrounding whitespace is trimmed and blank lines are skipped.
//
// JSON (.json) holds a tasks array whose items are either strings or
// objects with a content field and an optional deleted flag:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    "Wake",
//	    {"content": "Eat"},
//	    {"content": "Drink", "deleted": true}
//	  ]
//	}
//
// # Validation
//
// JSON files are validated against an embedded JSON Schema (draft 2020-12)
// before they are decoded. Schema failures are reported as *ValidationError
// values whose Path is a dotted path such as "tasks[1].content".
//
// Task files are never written back.
package todo
