package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EntryKind tags a directory listing entry.
type EntryKind int

const (
	// EntryDirectory is a directory that is descended into.
	EntryDirectory EntryKind = iota
	// EntryFile is anything else: regular files, symlinks and special files.
	EntryFile
)

// String returns the kind name used in logs.
func (kind EntryKind) String() string {
	switch kind {
	case EntryDirectory:
		return "directory"
	case EntryFile:
		return "file"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(kind))
	}
}

// Entry is one child of a listed directory. Symbolic links are reported as
// files and never followed as directories, so link cycles cannot occur.
type Entry struct {
	Kind         EntryKind
	Name         string
	Path         string
	RelativePath string
}

// Extension returns the text after the last '.' of the entry name, or an
// empty string when the name has no '.'.
func (entry Entry) Extension() string {
	separatorIndex := strings.LastIndex(entry.Name, ".")
	if separatorIndex < 0 {
		return ""
	}
	return entry.Name[separatorIndex+1:]
}

// listDirectory reads a directory once and classifies each child, sorted
// lexicographically by raw name (byte order, case-sensitive).
func listDirectory(directoryPath string, relativeDirectory string) ([]Entry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	entries := make([]Entry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		kind := EntryFile
		if directoryEntry.IsDir() {
			kind = EntryDirectory
		}
		relativePath := name
		if relativeDirectory != "" {
			relativePath = relativeDirectory + "/" + name
		}
		entries = append(entries, Entry{
			Kind:         kind,
			Name:         name,
			Path:         filepath.Join(directoryPath, name),
			RelativePath: relativePath,
		})
	}
	sort.Slice(entries, func(left, right int) bool {
		return entries[left].Name < entries[right].Name
	})
	return entries, nil
}
