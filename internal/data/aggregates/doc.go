// Package aggregates owns the transaction boundary for prompt writes.
//
// A write runs inside one gorm transaction with a fresh UnitOfWork: builders register the
// entities they construct, and Commit flushes them in dependency order before the transaction
// commits. Any error discards everything staged.
package aggregates
