package check

// DefaultCheckers returns the canonical, ordered checker pipeline applied to
// every workspace. Order matters: removal and renaming checkers run first
// so that later checkers (type inference, source-type inference, archive
// extraction) see a clean, stable file set.
func DefaultCheckers() []Checker {
	return []Checker{
		RemoveMacOSXHiddenFiles{},
		RemoveFilesWithLeadingDot{},
		ZeroLengthFileChecker{},
		RemoveTopLevelDirectory{},

		WarnAboutProcessedDirectory{},

		FixWindowsFileNames{},
		AncillaryFileChecker{},

		WarnAboutTeXBackupFiles{},

		ReplaceIllegalCharacters{},
		ReplaceLeadingHyphen{},
		RemoveHyperlinkStyleFiles{},
		RemoveDisallowedFiles{},
		RemoveMetaFiles{},

		CheckForBibFile{},
		RemoveExtraneousRevTeXFiles{},
		RemoveDiagramsPackage{},
		RemoveAADemoFile{},
		RemoveMissingFontFile{},
		RemoveSyncTeXFiles{},
		PanicOnIllegalCharacters{},
		RemoveTeXGeneratedFiles{},
		FixTGZFileName{},
		RemoveDOCFiles{},

		InferFileType{},
		DisallowDVIFiles{},
		FixFileExtensions{},
		UnMacify{},
		CleanupPostScript{},
		CheckTeXForm{},
		CheckForUnacceptableImages{},
		CheckForUUEncodedFiles{},
		RepairDOSEPSFiles{},
		FlagInvalidFileTypes{},
		InferSourceType{},
		FlagInvalidSourceTypes{},

		UnpackCompressedTarFiles{},
		UnpackCompressedZIPFiles{},
	}
}

// NewDefaultStrategy builds a Strategy running the canonical checker
// pipeline in its documented order.
func NewDefaultStrategy() *Strategy {
	return NewStrategy(DefaultCheckers()...)
}
