// Package diagnostics implements the structured error/warning/info model
// that checkers and the workspace aggregate use to report on submission
// content. Diagnostics are keyed by file path (or empty for workspace-level
// diagnostics), carry a short stable code for idempotent de-duplication and
// downstream programmatic handling, and carry a persistence flag that
// determines whether they survive a check pass.
package diagnostics

import "fmt"

// Severity indicates how serious a diagnostic is.
type Severity uint8

const (
	// SeverityInfo indicates purely informational content.
	SeverityInfo Severity = iota
	// SeverityWarning indicates a condition that does not block readiness.
	SeverityWarning
	// SeverityFatal indicates a condition that, if persistant, blocks
	// readiness.
	SeverityFatal
)

// String returns the wire-stable, lowercase representation of a severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warn"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Code is a short, stable diagnostic identifier, e.g. "disallowed_file" or
// "bbl_missing". Codes are used for idempotent replacement within a file's
// diagnostic list and for programmatic handling by callers.
type Code string

// Diagnostic codes for every check-pipeline error, warning, and info case.
const (
	CodeStorageFailed           Code = "storage_failed"
	CodeUnpackError             Code = "unpack_error"
	CodeDisallowedFile          Code = "disallowed_file"
	CodeHiddenFiles             Code = "hidden_files"
	CodeHiddenFilesDot          Code = "hidden_files_dot"
	CodeDotTeXDetected          Code = "dot_tex_detected"
	CodeHyperlinkCompatPackage  Code = "hyperlink_compatible_package"
	CodeNameConflict            Code = "name_conflict"
	CodePossibleBackupFile      Code = "possible_backup_file"
	CodeFilenameIllegalChars    Code = "filename_illegal_characters"
	CodeFilenameLeadingHyphen   Code = "filename_leading_hyphen"
	CodeFixedWindowsName        Code = "fixed_windows_name"
	CodeZeroLength              Code = "zero_length"
	CodeProcessedDirectory      Code = "processed_directory"
	CodeUnsupportedImage        Code = "unsupported_image"
	CodeContainsDisallowedFiles Code = "contains_disallowed_files"
	CodeDocxNotSupported        Code = "docx_not_supported"
	CodeOdfNotSupported         Code = "odf_not_supported"
	CodeEpsNotSupported         Code = "eps_not_supported"
	CodeSingleAuxiliaryTeXFile  Code = "single_auxiliary_tex_file"
	CodeRarNotSupported         Code = "rar_not_supported"
	CodeDviNotAllowed           Code = "dvi_not_allowed"
	CodeMSWordNotSupported      Code = "ms_word_not_supported"
	CodeBblMissing              Code = "bbl_missing"
	CodeWorkspaceNotWritable    Code = "workspace_not_writable"
	CodeWorkspaceNotFound       Code = "workspace_not_found"
	CodeNoContentToPack         Code = "no_content_to_pack"
	CodeCouldNotDetermineType   Code = "could_not_determine_file_type"
	CodePayloadTooLarge         Code = "payload_too_large"
	CodeFileExtensionFixed      Code = "file_extension_fixed"
	CodeTopLevelDirectoryRemoved Code = "top_level_directory_removed"
	CodeFileTerminationStripped Code = "file_termination_stripped"
	CodeFileMissingNewline      Code = "file_missing_newline"
	CodePostscriptPreviewStripped Code = "postscript_preview_stripped"
	CodePostscriptRepaired      Code = "postscript_repaired"
	CodeDosEpsRepaired          Code = "dos_eps_repaired"
	CodeWorkspaceFatal          Code = "workspace_error"
	CodeWorkspaceWarning        Code = "workspace_warning"
)

// Diagnostic is a single structured error, warning, or info message.
type Diagnostic struct {
	// Severity is the diagnostic's severity.
	Severity Severity
	// Code is the diagnostic's stable identifier.
	Code Code
	// Path is the workspace-relative path the diagnostic concerns, or the
	// empty string for workspace-level diagnostics.
	Path string
	// Message is a human-readable description, which may embed the file
	// name.
	Message string
	// Persistant indicates whether the diagnostic survives the start of a
	// new check pass. Non-persistant diagnostics are cleared unconditionally
	// at the start of each pass; persistant ones survive until the checker
	// that raised them resolves the underlying condition (typically by not
	// re-raising it).
	Persistant bool
}

// String renders the diagnostic as "severity[ path]: message", the
// (severity, path, message) shape surfaced to hosting services.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Path, d.Message)
}
