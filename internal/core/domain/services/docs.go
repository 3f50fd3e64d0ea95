// Package services provides domain services that combine several domain models.
//
// The package includes:
//   - ImpactCalculator: turns a completed transaction into an impact delta for the
//     seller's company, using the configured per-category factors
package services
