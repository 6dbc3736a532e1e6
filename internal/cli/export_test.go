package cli

// Export internal functions for testing.

// RunTranslate exports runTranslate for testing.
var RunTranslate = runTranslate

// ParseTranslateOptions exports parseTranslateOptions for testing.
var ParseTranslateOptions = parseTranslateOptions

// ApplyConfig exports applyConfig for testing.
var ApplyConfig = applyConfig

// RunPlan exports runPlan for testing.
var RunPlan = runPlan

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// WriteFileAtomic exports writeFileAtomic for testing.
var WriteFileAtomic = writeFileAtomic

// IsQuit exports isQuit for testing.
var IsQuit = isQuit

// SupportedFormatsList exports supportedFormatsList for testing.
var SupportedFormatsList = supportedFormatsList

// DescribeChapters exports describeChapters for testing.
var DescribeChapters = describeChapters

// TranslateOptions exports translateOptions for testing.
type TranslateOptions = translateOptions
