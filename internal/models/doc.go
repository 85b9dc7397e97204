// Package models defines the persisted domain records for splitledger.
//
// # Models
//
//   - Group: a set of members sharing costs, with a reference currency
//   - Member: one participant of a group, identified within that group
//   - Expense: a cost paid by one member, split among members
//   - Payment: a reimbursement from one member to another
//   - User: a registered account that can manage groups
//
// Balances and settlement transfers are never stored. They are derived on demand
// by the calculator package from a group's expenses and payments.
//
// # Design Principles
//
// 1. **Store what was entered**: amounts keep their original currency alongside
// the converted base amount, so a rate table change never rewrites history
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 3. **Members are not users**: a member is a name inside a group; accounts only gate access
package models
