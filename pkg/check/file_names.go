package check

import (
	"fmt"
	"path"
	"regexp"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
)

var windowsFilePrefix = regexp.MustCompile(`^[A-Za-z]:\\(.*\\)?`)

// FixWindowsFileNames strips a Windows drive-letter/backslash prefix
// (e.g. "C:\Users\me\") that some Windows zip clients embed in archive
// member names, leaving only the base filename.
type FixWindowsFileNames struct{}

func (FixWindowsFileNames) Name() string { return "fix_windows_file_names" }

func (FixWindowsFileNames) Check(ws Workspace, f *fileindex.UserFile) {
	if !windowsFilePrefix.MatchString(f.Path) {
		return
	}
	prevName := f.Name()
	newName := windowsFilePrefix.ReplaceAllString(prevName, "")
	newPath := path.Join(f.Dir(), newName)
	if err := ws.Rename(f.Path, newPath); err != nil {
		return
	}
	ws.AddWarning(newPath, diagnostics.CodeFixedWindowsName,
		fmt.Sprintf("Renamed '%s' to '%s'.", prevName, newName), false)
}

var texBackupFile = regexp.MustCompile(`(?i)(.+)\.(tex_|tex\.bak|tex~)$`)

// WarnAboutTeXBackupFiles warns about files that look like editor backup
// copies of a .tex file (must run before illegal-character replacement
// mangles the trailing tilde).
type WarnAboutTeXBackupFiles struct{}

func (WarnAboutTeXBackupFiles) Name() string { return "warn_about_tex_backup_files" }

func (WarnAboutTeXBackupFiles) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsAncillary() {
		return
	}
	if texBackupFile.MatchString(f.Name()) {
		ws.AddWarning(f.Path, diagnostics.CodePossibleBackupFile,
			fmt.Sprintf("File '%s' may be a backup file. Please inspect and remove extraneous backup files.", f.Name()),
			true)
	}
}

// IllegalCharacters matches any character outside the accepted filename
// alphabet: letters, digits, underscore, plus, hyphen, period, equals,
// comma.
var IllegalCharacters = regexp.MustCompile(`[^\w+\-.=,]`)

// ReplaceIllegalCharacters rewrites disallowed characters in a filename to
// underscores.
type ReplaceIllegalCharacters struct{}

func (ReplaceIllegalCharacters) Name() string { return "replace_illegal_characters" }

func (ReplaceIllegalCharacters) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsDirectory || !IllegalCharacters.MatchString(f.Name()) {
		return
	}
	prevName := f.Name()
	newName := IllegalCharacters.ReplaceAllString(prevName, "_")
	newPath := path.Join(f.Dir(), newName)
	if err := ws.Rename(f.Path, newPath); err != nil {
		return
	}
	ws.AddWarning(newPath, diagnostics.CodeFilenameIllegalChars,
		fmt.Sprintf("We only accept file names containing the characters: a-z A-Z 0-9 _ + - . =. Renamed '%s' to '%s'", prevName, newName),
		false)
}

// PanicOnIllegalCharacters raises a fatal error for any filename that still
// contains disallowed characters after ReplaceIllegalCharacters has run
// (defensive backstop; should be unreachable in practice).
type PanicOnIllegalCharacters struct{}

func (PanicOnIllegalCharacters) Name() string { return "panic_on_illegal_characters" }

func (PanicOnIllegalCharacters) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsDirectory || !IllegalCharacters.MatchString(f.Name()) {
		return
	}
	ws.AddError(f.Path, diagnostics.CodeFilenameIllegalChars,
		fmt.Sprintf(`Filename "%s" contains unwanted bad characters. The only allowed are a-z A-Z 0-9 _ + - . , =`, f.Name()),
		diagnostics.SeverityFatal, true)
}

var leadingHyphen = regexp.MustCompile(`^-`)

// ReplaceLeadingHyphen rewrites a leading hyphen to an underscore, since a
// hyphen-prefixed filename is easily misread as a command-line flag by
// downstream tooling.
type ReplaceLeadingHyphen struct{}

func (ReplaceLeadingHyphen) Name() string { return "replace_leading_hyphen" }

func (ReplaceLeadingHyphen) Check(ws Workspace, f *fileindex.UserFile) {
	if !leadingHyphen.MatchString(f.Name()) {
		return
	}
	prevName := f.Name()
	newName := leadingHyphen.ReplaceAllString(prevName, "_")
	newPath := path.Join(f.Dir(), newName)
	if err := ws.Rename(f.Path, newPath); err != nil {
		return
	}
	ws.AddWarning(newPath, diagnostics.CodeFilenameLeadingHyphen,
		fmt.Sprintf("We do not accept files starting with a hyphen. Renamed '%s' to '%s'.", prevName, newName),
		false)
}
