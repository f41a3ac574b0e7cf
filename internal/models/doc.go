// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - User: registered account, identified by UUID
//   - Group: a set of members who split expenses in one currency
//   - Expense: a shared cost with payers, a split rule, and computed splits
//   - Settlement: a directed payment that reduces balances toward zero
//
// # Design Principles
//
//  1. **Minor-unit money**: every amount is int64 minor units; no floats
//     are stored.
//  2. **Explicit currency**: the group carries the currency, expenses and
//     settlements echo it. There is no implicit global default.
//  3. **Avoid circular references**: relationships use ID strings, not
//     pointers.
//  4. **One payer shape**: payers are always a list of (user, amount)
//     pairs; a single payer is a one-element list.
package models
