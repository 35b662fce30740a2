// Package models defines the core domain models for Splitvest.
//
// # Model Overview
//
//   - User: Registered account; group members are always user IDs
//   - Group: A named set of members sharing expenses or pooled investments
//   - Expense: An amount paid by one member and split among the group
//   - BalanceRecord: Per (group, user) signed pairwise balances against every counterparty
//   - Settlement: A recorded payment that clears one directed debt
//   - Investment, Contribution: Stock-pool tracking for INVESTMENT groups
//
// # Design Principles
//
//  1. **Facts vs. projections**: Expense and Settlement are append-only facts.
//     BalanceRecord is the mutable projection derived from them; it is written
//     only by the ledger code, never by handlers or reports.
//  2. **Strongly-typed identifiers**: UserID and GroupID are distinct string
//     types, so a balance map is keyed by UserID rather than an arbitrary
//     string.
//  3. **Exact money**: every amount is a decimal.Decimal. Floats never touch
//     balances.
//  4. **Avoid circular references**: models reference each other by ID, not by
//     pointer.
package models
