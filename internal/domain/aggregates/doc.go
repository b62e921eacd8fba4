// Package aggregates defines the error taxonomy shared by the prompt aggregate write and read
// paths.
//
// Builders and services never recover locally: every failure is returned as an *Error so the
// transaction boundary can discard staged entities and the HTTP layer can pick a status.
package aggregates
