package knownhosts

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
	xknownhosts "golang.org/x/crypto/ssh/knownhosts"
)

// NoIndex is passed to index-based operations when nothing is selected.
const NoIndex = -1

// Entry is one known_hosts line: host, key type and key value.
// KeyValue keeps everything after the key type verbatim, so a trailing
// comment stays part of it.
type Entry struct {
	Host     string
	KeyType  string
	KeyValue string
}

// Deleted is a tombstone recorded when an entry is removed. Position is the
// index the entry had before removal and is used as a best-effort hint when
// the entry is restored.
type Deleted struct {
	Position int
	Entry    Entry
}

// String renders the entry as a single known_hosts line without newline.
func (e Entry) String() string {
	return e.Host + " " + e.KeyType + " " + e.KeyValue
}

// Addresses splits the host field on commas.
func (e Entry) Addresses() []string {
	raw := strings.Split(e.Host, ",")
	addrs := make([]string, 0, len(raw))
	for _, a := range raw {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		addrs = append(addrs, a)
	}
	return addrs
}

// IsHashed reports whether the host field is a hashed hostname (|1|salt|hash).
func (e Entry) IsHashed() bool {
	return strings.HasPrefix(e.Host, "|")
}

// Fingerprint returns the SHA256 fingerprint of the entry's public key.
// Entries are never validated, so this fails for anything ssh cannot parse.
func (e Entry) Fingerprint() (string, error) {
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(e.KeyType + " " + e.KeyValue))
	if err != nil {
		return "", fmt.Errorf("failed to parse public key: %w", err)
	}
	return ssh.FingerprintSHA256(key), nil
}

// HashHost returns the hashed known_hosts form of host.
func HashHost(host string) string {
	return xknownhosts.HashHostname(host)
}
