// Package overlay writes, restores and removes the drop-in override files
// that carry hardening directives. All writes are atomic and every write
// captures enough state to put the previous configuration back.
package overlay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unitshield/unitshield/internal/catalog"
	"github.com/unitshield/unitshield/internal/fsutil"
)

// OverrideFileName is the drop-in file unitshield owns inside a unit's
// .d directory.
const OverrideFileName = "override.conf"

// headerPrefix marks an override as written by unitshield and records the
// profile it carries.
const headerPrefix = "# Generated by unitshield - Profile: "

var (
	// ErrWriteDenied wraps permission failures so callers can suggest
	// re-running with privileges.
	ErrWriteDenied = errors.New("override write denied")
	// ErrPathConflict reports that the override path is occupied by
	// something that is not ours to replace.
	ErrPathConflict = errors.New("override path conflict")
)

// Render produces the override content for a profile. The output is a
// pure function of the profile, so applying the same profile twice leaves
// the file byte-identical.
func Render(profileName string, prof catalog.Profile) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", headerPrefix, profileName)
	b.WriteString("[Service]\n")
	for _, d := range prof.Directives {
		fmt.Fprintf(&b, "%s=%s\n", d.Key, d.Value)
	}
	return []byte(b.String())
}

// ProfileOf extracts the profile name from a rendered override. It
// reports false for files unitshield did not write.
func ProfileOf(content []byte) (string, bool) {
	first, _, _ := strings.Cut(string(content), "\n")
	name, ok := strings.CutPrefix(first, headerPrefix)
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return strings.TrimSpace(name), true
}

// State captures what Write found so Restore can undo it exactly.
type State struct {
	Service      string
	Path         string
	PriorExisted bool
	PriorContent []byte

	dirCreated bool
}

// Writer manages override files under a single base directory.
type Writer struct {
	base string
}

// NewWriter returns a Writer rooted at base, normally the systemd system
// or user unit directory.
func NewWriter(base string) *Writer {
	return &Writer{base: base}
}

// DropInDir returns the unit's .d directory.
func (w *Writer) DropInDir(service string) string {
	return filepath.Join(w.base, service+".d")
}

// Path returns the override file path for a service.
func (w *Writer) Path(service string) string {
	return filepath.Join(w.DropInDir(service), OverrideFileName)
}

// Write atomically writes content as the service's override, creating the
// drop-in directory when needed. The returned state records the previous
// content, if any, for Restore.
func (w *Writer) Write(service string, content []byte) (*State, error) {
	dir := w.DropInDir(service)
	st := &State{Service: service, Path: w.Path(service)}

	info, err := os.Lstat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s exists and is not a directory", ErrPathConflict, dir)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, classify(fmt.Errorf("failed to create %s: %w", dir, err))
		}
		st.dirCreated = true
	default:
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	fi, err := os.Lstat(st.Path)
	switch {
	case err == nil:
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s exists and is not a regular file", ErrPathConflict, st.Path)
		}
		prior, err := os.ReadFile(st.Path)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to read existing override %s: %w", st.Path, err))
		}
		st.PriorExisted = true
		st.PriorContent = prior
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to stat %s: %w", st.Path, err)
	}

	if err := fsutil.WriteFileAtomic(st.Path, content, 0o644); err != nil {
		return nil, classify(err)
	}
	return st, nil
}

// Restore puts the service's override back to the state captured by
// Write: the prior content is rewritten, or the file is removed when none
// existed. Restoring twice is safe.
func (w *Writer) Restore(st *State) error {
	if st.PriorExisted {
		if err := fsutil.WriteFileAtomic(st.Path, st.PriorContent, 0o644); err != nil {
			return classify(err)
		}
		return nil
	}
	if err := os.Remove(st.Path); err != nil && !os.IsNotExist(err) {
		return classify(fmt.Errorf("failed to remove override %s: %w", st.Path, err))
	}
	if st.dirCreated {
		// Best effort: an empty leftover .d directory changes nothing
		// for systemd.
		_ = os.Remove(w.DropInDir(st.Service))
	}
	return nil
}

// Remove deletes the service's override if present, reporting whether one
// was there.
func (w *Writer) Remove(service string) (bool, error) {
	path := w.Path(service)
	fi, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return false, fmt.Errorf("%w: %s exists and is not a regular file", ErrPathConflict, path)
	}
	if err := os.Remove(path); err != nil {
		return false, classify(fmt.Errorf("failed to remove override %s: %w", path, err))
	}
	_ = os.Remove(w.DropInDir(service))
	return true, nil
}

// Current returns the service's current override content, if any.
func (w *Writer) Current(service string) ([]byte, bool, error) {
	data, err := os.ReadFile(w.Path(service))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify(err)
	}
	return data, true, nil
}

// classify wraps permission errors in ErrWriteDenied and passes everything
// else through.
func classify(err error) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrWriteDenied, err)
	}
	return err
}
