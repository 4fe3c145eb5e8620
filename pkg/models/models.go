package models

/*
PaperTrade Database Models

This package contains all database models organized by domain:

- user.go   - User account and password models
- ledger.go - Transaction ledger models and derived holding types
- auth.go   - Login auditing and rate limiting models
- utils.go  - Shared utility functions

The transactions table is intentionally absent from the eager migration
set in pkg/database: it is created lazily by the trading service on the
first executed trade, and every reader treats a missing table as an
empty ledger.
*/
