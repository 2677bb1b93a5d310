/*
Package session serializes snapshot access per session id.

A Manager guards every store operation with an in-process lock per session,
reference counted so idle sessions leave nothing behind, and optionally with a
distributed lock when several processes share a store.
*/
package session
