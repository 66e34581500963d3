// Package gridpager feeds paged data grids (ExtJS-style stores) from GORM
// models.
//
// Overview
//
// A grid store loads a page with page/start/limit/sort parameters and
// expects an envelope back:
//
//	{"records": [...], "success": true, "total": 30, "start": 0, "limit": 10}
//
// gridpager covers both halves of that exchange:
//   - Pager: counts the filtered dataset and loads one ordered LIMIT/OFFSET
//     page of it. Grid sort properties are resolved to columns through a
//     ColumnMapping or the GORM schema of the model.
//   - Dumper: converts entities to Records holding only the configured
//     fields. Values are read through GetX/IsX methods, exported fields or
//     map keys; dates become "2006-01-02" strings and nested entities are
//     dumped with their own configured fields.
//   - Envelope: the response shape, assembled by Wrap, DumpCollection or
//     DumpPage.
//
// Field mappings
//
// Fields are configured per entity name, usually in YAML:
//
//	User:
//	  fields:
//	    default: [id, name, created_at, address.city]
//	    admin: [id, name, email, created_at]
//
// Field names may be written in snake_case or camelCase and may be dotted
// paths. The name as written is the key of the dumped record.
//
// See the gridgin package for a ready to use gin handler.
package gridpager
