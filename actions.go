package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/FlameInTheDark/khedit/internal/knownhosts"
)

// parseIndex turns the 1-based number printed by list into a store index.
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return knownhosts.NoIndex, fmt.Errorf("invalid entry number %q: expected a positive integer", arg)
	}
	return n - 1, nil
}

func listKnownHosts(w io.Writer, knownHostsPath string, long bool) error {
	store, err := knownhosts.Open(knownHostsPath, knownhosts.WithLogger(log.Default()))
	if err != nil {
		return fmt.Errorf("failed to parse known_hosts: %w", err)
	}

	fmt.Fprintln(w, "SSH Known Hosts:")
	fmt.Fprintln(w, "================")

	for i, e := range store.Entries() {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, e.Host, e.KeyType)
		if !long {
			continue
		}
		if fp, err := e.Fingerprint(); err == nil {
			fmt.Fprintf(w, "   %s\n", fp)
		} else {
			fmt.Fprintln(w, "   fingerprint unavailable")
		}
	}

	return nil
}

func showEntry(w io.Writer, knownHostsPath string, index int) error {
	store, err := knownhosts.Open(knownHostsPath, knownhosts.WithLogger(log.Default()))
	if err != nil {
		return fmt.Errorf("failed to parse known_hosts: %w", err)
	}

	e, err := store.Entry(index)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Line:        %d\n", index+1)
	if e.IsHashed() {
		fmt.Fprintf(w, "Hashed host: %s\n", e.Host)
	} else {
		fmt.Fprintf(w, "Hosts:       %s\n", strings.Join(e.Addresses(), ", "))
	}
	fmt.Fprintf(w, "Type:        %s\n", e.KeyType)
	if fp, err := e.Fingerprint(); err == nil {
		fmt.Fprintf(w, "Fingerprint: %s\n", fp)
	} else {
		fmt.Fprintf(w, "Fingerprint: unavailable (%v)\n", err)
	}
	fmt.Fprintf(w, "Key:         %s\n", e.KeyValue)

	return nil
}

// mutation carries the flags shared by the commands that rewrite known_hosts.
type mutation struct {
	dryRun bool
	backup bool
}

// apply loads the store, runs fn and, for dry runs, prints the diff of what
// would have been written.
func (mu mutation) apply(w io.Writer, knownHostsPath string, fn func(*knownhosts.Store) error) error {
	opts := []knownhosts.Option{
		knownhosts.WithBackup(mu.backup),
		knownhosts.WithLogger(log.Default()),
	}
	if mu.dryRun {
		opts = append(opts, knownhosts.WithDryRun())
	}

	store, err := knownhosts.Open(knownHostsPath, opts...)
	if err != nil {
		return fmt.Errorf("failed to parse known_hosts: %w", err)
	}

	before := store.Render()

	if err := fn(store); err != nil {
		return err
	}

	if mu.dryRun {
		after := store.Render()
		if before == after {
			fmt.Fprintln(w, "No changes.")
			return nil
		}
		fmt.Fprint(w, knownhosts.Diff(before, after))
	}

	return nil
}

type confirmFunc func(prompt string) (bool, error)

// promptConfirm asks on the terminal. Non-interactive input is refused so a
// piped invocation never deletes without --yes.
func promptConfirm(in *os.File, out io.Writer) confirmFunc {
	return func(prompt string) (bool, error) {
		if !term.IsTerminal(int(in.Fd())) {
			return false, errors.New("refusing to delete without --yes: stdin is not a terminal")
		}

		fmt.Fprintf(out, "%s [y/N]: ", prompt)

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

func deleteEntry(w io.Writer, knownHostsPath string, index int, confirm confirmFunc, mu mutation) error {
	return mu.apply(w, knownHostsPath, func(store *knownhosts.Store) error {
		e, err := store.Entry(index)
		if err != nil {
			return err
		}

		if confirm != nil && !mu.dryRun {
			ok, err := confirm(fmt.Sprintf("Delete %s (%s)?", e.Host, e.KeyType))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(w, "Aborted.")
				return nil
			}
		}

		if err := store.Delete(index); err != nil {
			return fmt.Errorf("failed to delete entry %d: %w", index+1, err)
		}

		if !mu.dryRun {
			fmt.Fprintf(w, "Deleted %s (%s)\n", e.Host, e.KeyType)
		}
		return nil
	})
}

func editEntry(w io.Writer, knownHostsPath string, index int, newHost string, hash bool, mu mutation) error {
	newHost = strings.TrimSpace(newHost)
	if hash && newHost != "" {
		newHost = knownhosts.HashHost(newHost)
	}

	return mu.apply(w, knownHostsPath, func(store *knownhosts.Store) error {
		if err := store.Edit(index, newHost); err != nil {
			return fmt.Errorf("failed to edit entry %d: %w", index+1, err)
		}

		if !mu.dryRun {
			fmt.Fprintf(w, "Entry %d host set to %s\n", index+1, newHost)
		}
		return nil
	})
}

func stashEntry(w io.Writer, knownHostsPath, stashPath string, index int, mu mutation) error {
	return mu.apply(w, knownHostsPath, func(store *knownhosts.Store) error {
		if stashPath == "" {
			stashPath = store.StashPath()
		}

		e, err := store.Entry(index)
		if err != nil {
			return err
		}

		if err := store.Stash(index, stashPath); err != nil {
			return fmt.Errorf("failed to stash entry %d: %w", index+1, err)
		}

		if !mu.dryRun {
			fmt.Fprintf(w, "Stashed %s (%s) to: %s\n", e.Host, e.KeyType, stashPath)
		}
		return nil
	})
}

func backupKnownHosts(w io.Writer, sourcePath string, now time.Time) error {
	backupPath, err := knownhosts.Backup(sourcePath, now)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Backup created: %s\n", backupPath)
	return nil
}

func getTimestamp() time.Time {
	return time.Now()
}
