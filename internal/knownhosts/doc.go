// Package knownhosts reads, edits and rewrites an SSH known_hosts file.
//
// Lines are treated as three fields, host, key type and key value, with no
// validation of the SSH semantics. Lines with fewer than three fields are
// dropped on load and therefore disappear on the next save.
package knownhosts
