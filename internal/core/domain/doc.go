// Package domain contains the core types and pure business logic for
// vecsync: document identity and fingerprinting, the admission policy,
// reconciliation plans and run results. It has no dependencies on
// adapters or external services.
package domain
