// Package transaction implements the ledger aggregate of the marketplace: a buyer's
// request for a seller's surplus goods and its authorization-guarded lifecycle.
//
// The package includes:
//   - Transaction: the aggregate root, with Accept, Complete, Cancel and ChangeTerms
//   - Status: the lifecycle graph Pending -> {Accepted, Cancelled}, Accepted -> {Completed, Cancelled}
//   - Kind: Sale or Donation
//   - Listing: the catalog snapshot a transaction is opened from
//   - StatusChanged: the integration event published after a committed transition
//
// Concurrency is handled outside the aggregate: every mutation bumps Version, and
// repositories persist with a compare-and-swap on the version that was read.
package transaction
