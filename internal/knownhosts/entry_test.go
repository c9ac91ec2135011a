package knownhosts

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestEntryString(t *testing.T) {
	e := Entry{Host: "a,b", KeyType: "ssh-rsa", KeyValue: "KEY comment here"}
	if got := e.String(); got != "a,b ssh-rsa KEY comment here" {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestEntryAddresses(t *testing.T) {
	e := Entry{Host: "example.com,,10.0.0.1", KeyType: "t", KeyValue: "v"}
	addrs := e.Addresses()
	if len(addrs) != 2 || addrs[0] != "example.com" || addrs[1] != "10.0.0.1" {
		t.Fatalf("unexpected addresses: %v", addrs)
	}
}

func TestEntryFingerprint(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("NewPublicKey: %v", err)
	}

	line := "example.com " + strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	e, ok := ParseLine(line)
	if !ok {
		t.Fatalf("expected line to parse")
	}

	fp, err := e.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp != ssh.FingerprintSHA256(sshPub) {
		t.Fatalf("fingerprint mismatch: got %s, want %s", fp, ssh.FingerprintSHA256(sshPub))
	}
}

func TestEntryFingerprint_Garbage(t *testing.T) {
	e := Entry{Host: "h", KeyType: "ssh-rsa", KeyValue: "not-base64!"}
	if _, err := e.Fingerprint(); err == nil {
		t.Fatalf("expected error for garbage key")
	}
}

func TestHashHost(t *testing.T) {
	hashed := HashHost("10.0.0.1")
	if !strings.HasPrefix(hashed, "|1|") {
		t.Fatalf("expected hashed host, got %q", hashed)
	}
	e := Entry{Host: hashed, KeyType: "t", KeyValue: "v"}
	if !e.IsHashed() {
		t.Fatalf("expected entry to be hashed")
	}
}
