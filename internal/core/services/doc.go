// Package services implements the core application logic: corpus
// indexing, reconciliation and plan execution, and similarity search.
// Services depend only on domain types and ports.
package services
