// Package pg owns PostgreSQL plumbing shared by the storage backends:
// pool construction with startup retry, schema migrations, a health probe,
// and error classifiers so callers never match SQLSTATE codes themselves.
package pg
