// Package models holds the records shared by the interntrack client, the
// profile API server and the backing-store repositories.
package models
