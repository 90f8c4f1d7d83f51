// Package storage provides the durable implementations backing the auth
// core: PostgreSQL stores for accounts and provider links, a Redis store
// for one-time OAuth state tokens, and an in-memory store for tests and
// local development.
package storage
