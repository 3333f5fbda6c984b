package source

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	macOSMetadataDirectory = "__MACOSX"

	errorOpenArchiveFormat   = "opening archive %s: %w"
	errorExtractEntryFormat  = "extracting %s: %w"
	errorUnsafeEntryFormat   = "%w: %s"
	errorListWorkspaceFormat = "listing workspace %s: %w"
)

// ErrUnsafeArchiveEntry is returned for entries that would be written outside the workspace.
var ErrUnsafeArchiveEntry = errors.New("archive entry escapes the workspace")

// Extract unpacks a zip archive into workspace and returns the repository
// root: the archive's single top-level directory when it has exactly one,
// otherwise the workspace itself. Symbolic link entries are skipped.
func Extract(archivePath string, workspace string, clean bool) (string, error) {
	reader, openError := zip.OpenReader(archivePath)
	if errors.Is(openError, zip.ErrInsecurePath) {
		if reader != nil {
			_ = reader.Close()
		}
		return "", fmt.Errorf(errorUnsafeEntryFormat, ErrUnsafeArchiveEntry, archivePath)
	}
	if openError != nil {
		return "", fmt.Errorf(errorOpenArchiveFormat, archivePath, openError)
	}
	defer reader.Close()

	absoluteWorkspace, prepareError := prepareWorkspace(workspace, clean, archivePath)
	if prepareError != nil {
		return "", prepareError
	}

	for _, archiveFile := range reader.File {
		if extractError := extractEntry(archiveFile, absoluteWorkspace); extractError != nil {
			return "", extractError
		}
	}
	return archiveRoot(absoluteWorkspace)
}

func extractEntry(archiveFile *zip.File, absoluteWorkspace string) error {
	entryName := strings.ReplaceAll(archiveFile.Name, "\\", "/")
	targetPath := filepath.Join(absoluteWorkspace, filepath.FromSlash(entryName))
	if targetPath != absoluteWorkspace && !isWithin(targetPath, absoluteWorkspace) {
		return fmt.Errorf(errorUnsafeEntryFormat, ErrUnsafeArchiveEntry, archiveFile.Name)
	}

	mode := archiveFile.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return nil
	case archiveFile.FileInfo().IsDir() || strings.HasSuffix(entryName, "/"):
		if mkdirError := os.MkdirAll(targetPath, 0o755); mkdirError != nil {
			return fmt.Errorf(errorExtractEntryFormat, archiveFile.Name, mkdirError)
		}
		return nil
	}

	if mkdirError := os.MkdirAll(filepath.Dir(targetPath), 0o755); mkdirError != nil {
		return fmt.Errorf(errorExtractEntryFormat, archiveFile.Name, mkdirError)
	}
	entryReader, openError := archiveFile.Open()
	if openError != nil {
		return fmt.Errorf(errorExtractEntryFormat, archiveFile.Name, openError)
	}
	defer entryReader.Close()

	// #nosec G304
	targetFile, createError := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if createError != nil {
		return fmt.Errorf(errorExtractEntryFormat, archiveFile.Name, createError)
	}
	// #nosec G110
	_, copyError := io.Copy(targetFile, entryReader)
	closeError := targetFile.Close()
	if copyError != nil {
		return fmt.Errorf(errorExtractEntryFormat, archiveFile.Name, copyError)
	}
	if closeError != nil {
		return fmt.Errorf(errorExtractEntryFormat, archiveFile.Name, closeError)
	}
	return nil
}

func archiveRoot(absoluteWorkspace string) (string, error) {
	entries, readError := os.ReadDir(absoluteWorkspace)
	if readError != nil {
		return "", fmt.Errorf(errorListWorkspaceFormat, absoluteWorkspace, readError)
	}
	var candidates []os.DirEntry
	for _, entry := range entries {
		if entry.Name() == macOSMetadataDirectory {
			continue
		}
		candidates = append(candidates, entry)
	}
	if len(candidates) == 1 && candidates[0].IsDir() {
		return filepath.Join(absoluteWorkspace, candidates[0].Name()), nil
	}
	return absoluteWorkspace, nil
}
